package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseBooks parses a comma-separated book filter such as "1, 3,7". An empty
// string selects every book and yields nil.
func ParseBooks(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var books []int
	for _, part := range strings.Split(raw, ",") {
		b, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%q: %w", part, ErrInvalidBooks)
		}
		books = append(books, b)
	}
	return books, nil
}
