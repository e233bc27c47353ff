package catalog

import (
	"fmt"
	"strings"

	"github.com/saulo-duarte/scent-quiz/internal/apperr"
)

// Category is the fragrance layer a note belongs to.
type Category string

const (
	CategoryTop    Category = "Top"
	CategoryMiddle Category = "Middle"
	CategoryBase   Category = "Base"
)

var AllCategories = []Category{
	CategoryTop,
	CategoryMiddle,
	CategoryBase,
}

func (c Category) IsValid() bool {
	for _, v := range AllCategories {
		if c == v {
			return true
		}
	}
	return false
}

// ParseCategory accepts any casing: "top", "TOP" and "Top" are the same layer.
func ParseCategory(s string) (Category, error) {
	for _, v := range AllCategories {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: unknown note category %q", apperr.ErrValidation, s)
}
