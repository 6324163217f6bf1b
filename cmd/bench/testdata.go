package main

import (
	"math/rand"
	"strings"
	"unicode/utf8"
)

// corpus holds reference texts of typical dictation length.
var corpus = []string{
	"Мама мыла раму. Папа читал газету, а дети играли во дворе.",
	"В библиотеке можно найти книгу по любой теме, если знать, где искать.",
	"Вчера я ходил в магазин. Купил хлеб, молоко и яблоки.",
	"Утром я проснулся рано. Сделал зарядку и принял душ.",
	"Солнце светило ярко. Дети играли во дворе и весело смеялись.",
	"Привет! Как дела? Я только что вернулся из магазина.",
	"Осенью листья желтеют и опадают, а птицы улетают на юг.",
	"Квантовая механика описывает поведение материи на уровне атомов.",
	"Наш класс поехал на экскурсию в музей. Там мы увидели древние вазы — и даже настоящий скелет динозавра!",
	"Зимой в лесу тихо; только снег скрипит под ногами, и где-то вдалеке стучит дятел.",
}

// mutate returns a copy of text with learner-like mistakes: dropped and
// repeated words, swapped letters and lost punctuation.
func mutate(r *rand.Rand, text string) string {
	words := strings.Fields(text)
	out := make([]string, 0, len(words)+2)

	for _, w := range words {
		switch p := r.Float64(); {
		case p < 0.05:
			continue
		case p < 0.10:
			out = append(out, w, w)
		case p < 0.20:
			out = append(out, swapLetters(r, w))
		case p < 0.30:
			out = append(out, strings.TrimRight(w, ".,!?;:"))
		default:
			out = append(out, w)
		}
	}
	if len(out) == 0 {
		return text
	}
	return strings.Join(out, " ")
}

func swapLetters(r *rand.Rand, w string) string {
	if utf8.RuneCountInString(w) < 3 {
		return w
	}
	runes := []rune(w)
	i := 1 + r.Intn(len(runes)-2)
	runes[i-1], runes[i] = runes[i], runes[i-1]
	return string(runes)
}

// Pair is a reference text and one attempt at it.
type Pair struct {
	TaskIdx   int
	Reference string
	Attempt   string
}

func generatePairs(n int, seed int64) []Pair {
	r := rand.New(rand.NewSource(seed))
	pairs := make([]Pair, n)
	for i := range pairs {
		idx := r.Intn(len(corpus))
		pairs[i] = Pair{TaskIdx: idx, Reference: corpus[idx], Attempt: mutate(r, corpus[idx])}
	}
	return pairs
}
