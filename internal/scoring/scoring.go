// Package scoring вычисляет оценку совместимости двух объявлений (0-100).
// Оценка складывается из трех независимых компонент: категория, схожесть
// описания места и близость дат. Функции чистые, без I/O и состояния.
package scoring

import (
	"math"
	"strings"
	"time"

	"lostfound/internal/models"
)

// Веса компонент и параметры подбора. Единственное место, где они заданы:
// одиночный и пакетный подбор используют одну и ту же реализацию.
const (
	CategoryWeight = 40 // точное совпадение категории
	LocationWeight = 30 // текстовая схожесть места
	DateWeight     = 30 // близость дат

	// MatchThreshold - минимальная оценка, при которой пара предлагается
	// как совпадение (включительно)
	MatchThreshold = 50

	// MaxCandidates - ограничение выдачи при подборе для одного объявления.
	// Пакетный подбор ограничения не имеет.
	MaxCandidates = 10

	// DateDecayDays - окно линейного затухания оценки по датам
	DateDecayDays = 30

	// containsSimilarity - схожесть, когда одно место является
	// подстрокой другого
	containsSimilarity = 0.8
)

// Score возвращает итоговую оценку совместимости двух объявлений.
// Оценка симметрична: Score(a, b) == Score(b, a).
func Score(a, b *models.Item) int {
	score := 0

	if strings.EqualFold(a.Category, b.Category) {
		score += CategoryWeight
	}

	// Каждая взвешенная компонента округляется до суммирования
	score += int(math.Round(LocationSimilarity(a.Location, b.Location) * LocationWeight))
	score += int(math.Round(DateProximity(a.DateOccurred, b.DateOccurred) * DateWeight))

	if score > 100 {
		score = 100
	}
	return score
}

// LocationSimilarity оценивает текстовую схожесть двух описаний места
// в диапазоне [0, 1]. Это дешевая эвристика, а не геокодирование:
// точное совпадение = 1.0, вхождение подстроки = 0.8, иначе доля
// общих слов (пересечение множеств к объединению).
func LocationSimilarity(loc1, loc2 string) float64 {
	loc1 = strings.ToLower(strings.TrimSpace(loc1))
	loc2 = strings.ToLower(strings.TrimSpace(loc2))

	if loc1 == loc2 {
		return 1.0
	}

	// Пустая строка - подстрока чего угодно, вхождением не считается
	if loc1 != "" && loc2 != "" &&
		(strings.Contains(loc1, loc2) || strings.Contains(loc2, loc1)) {
		return containsSimilarity
	}

	words1 := wordSet(loc1)
	words2 := wordSet(loc2)

	if len(words1) == 0 || len(words2) == 0 {
		return 0
	}

	common := 0
	union := len(words2)
	for w := range words1 {
		if words2[w] {
			common++
		} else {
			union++
		}
	}

	if union == 0 {
		return 0
	}
	return float64(common) / float64(union)
}

// wordSet разбивает строку на множество слов, предварительно убрав все,
// кроме латинских букв, цифр и пробельных символов
func wordSet(s string) map[string]bool {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '\r':
			sb.WriteRune(r)
		}
	}

	set := make(map[string]bool)
	for _, w := range strings.Fields(sb.String()) {
		set[w] = true
	}
	return set
}

// dateLayouts - принимаемые форматы даты. Основной формат хранения YYYY-MM-DD
var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

// DateProximity оценивает близость двух дат в диапазоне [0, 1]:
// тот же день = 1.0, разница 30 и более дней = 0, между ними - линейно.
// Нечитаемая дата дает 0, ошибки не возвращаются.
func DateProximity(date1, date2 string) float64 {
	t1, ok1 := parseDate(date1)
	t2, ok2 := parseDate(date2)
	if !ok1 || !ok2 {
		return 0
	}

	daysDiff := math.Abs(float64(t1.Unix()-t2.Unix())) / 86400

	switch {
	case daysDiff <= 0:
		return 1.0
	case daysDiff >= DateDecayDays:
		return 0
	default:
		return 1 - daysDiff/DateDecayDays
	}
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
