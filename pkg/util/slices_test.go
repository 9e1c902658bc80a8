package util

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestSliceToMap(t *testing.T) {
	RegisterTestingT(t)

	Expect(SliceToMap([]string{"seed=42", "raw=true"})).To(Equal(map[string]string{
		"seed": "42",
		"raw":  "true",
	}))
	Expect(SliceToMap([]string{"flag"})).To(Equal(map[string]string{"flag": ""}))
	Expect(SliceToMap(nil)).To(BeEmpty())
}
