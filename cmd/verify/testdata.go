package main

import "harshagw/dictgrade/internal/grade"

// dictionaryTSV is a small form/lemma list covering the test texts.
const dictionaryTSV = `# form	lemma
играют	играть
играет	играть
играли	играть
веселятся	веселиться
веселится	веселиться
дети	ребёнок
библиотеке	библиотека
дворе	двор
магазин	магазин
магазина	магазин
светит	светить
светило	светить
книгу	книга
хлеб
молоко
`

func getTestCategories() []Category {
	return []Category{
		{
			Name: "Acceptance scenarios",
			Cases: []TestCase{
				{
					Reference: "Мама мыла раму.",
					Attempt:   "Мама мыла раму.",
					Accuracy:  1,
				},
				{
					Reference: "В библиотеке можно найти книгу.",
					Attempt:   "В библеотеке можно найти книгу.",
					Expected:  []ExpectedError{{grade.Spelling, "библеотеке", "библиотеке"}},
					Accuracy:  -1,
				},
				{
					Reference: "Дети играют во дворе.",
					Attempt:   "Дети играет во дворе.",
					Expected:  []ExpectedError{{grade.Grammar, "играет", "играют"}},
					Accuracy:  -1,
				},
				{
					Reference: "Я купил хлеб и молоко.",
					Attempt:   "Я купил хлеб молоко.",
					Expected:  []ExpectedError{{grade.Missing, "", "и"}},
					Accuracy:  -1,
				},
				{
					Reference: "Солнце светит ярко.",
					Attempt:   "Солнце очень светит ярко.",
					Expected:  []ExpectedError{{grade.Extra, "очень", ""}},
					Accuracy:  -1,
				},
			},
		},
		{
			Name: "Multiple errors",
			Cases: []TestCase{
				{
					Reference: "Дети играют во дворе. Они веселятся.",
					Attempt:   "Дети играет во дворе. Они веселится.",
					Expected: []ExpectedError{
						{grade.Grammar, "играет", "играют"},
						{grade.Grammar, "веселится", "веселятся"},
					},
					Accuracy: -1,
				},
				{
					Reference: "Утром я проснулся рано. Сделал зарядку и принял душ.",
					Attempt:   "Утром проснулся рано. Сделал зарядку принял душ.",
					Expected: []ExpectedError{
						{grade.Missing, "", "я"},
						{grade.Missing, "", "и"},
					},
					Accuracy: -1,
				},
				{
					Reference: "Солнце светило ярко. Дети играли во дворе.",
					Attempt:   "Солнце светило очень ярко. Дети играли весело во дворе.",
					Expected: []ExpectedError{
						{grade.Extra, "очень", ""},
						{grade.Extra, "весело", ""},
					},
					Accuracy: -1,
				},
				{
					Reference: "Привет! Как дела? Я только что вернулся из магазина.",
					Attempt:   "Привет как дела я только что вернулся из магазина",
					Expected: []ExpectedError{
						{grade.Punctuation, "", "!"},
						{grade.Punctuation, "", "?"},
						{grade.Punctuation, "", "."},
					},
					Accuracy: -1,
				},
				{
					Reference: "Вчера я ходил в магазин. Купил хлеб, молоко и яблоки.",
					Attempt:   "Вчера я ходил в магозин. Купил хлеб и яблоки.",
					Expected: []ExpectedError{
						{grade.Spelling, "магозин", "магазин"},
						{grade.Punctuation, "", ", молоко"},
					},
					Accuracy: -1,
				},
			},
		},
		{
			Name: "Edge cases",
			Cases: []TestCase{
				{
					Reference: "кот и кот и кот",
					Attempt:   "кот и кот и кит",
					Expected:  []ExpectedError{{grade.Spelling, "кит", "кот"}},
					Accuracy:  -1,
				},
				{
					Reference: "да, да, нет",
					Attempt:   "да да, нет",
					Expected:  []ExpectedError{{grade.Punctuation, "", ","}},
					Accuracy:  -1,
				},
				{
					Reference: "МАМА мыла Раму",
					Attempt:   "мама МЫЛА раму",
					Accuracy:  1,
				},
				{
					Reference: "два слова",
					Attempt:   "слова",
					Expected:  []ExpectedError{{grade.Missing, "", "два"}},
					Accuracy:  -1,
				},
			},
		},
	}
}
