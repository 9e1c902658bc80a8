package csvconv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
)

type promptRow struct {
	ID     int    `csv:"id"`
	Prompt string `csv:"prompt"`
	Model  string `csv:"model"`
}

func TestReadFile(t *testing.T) {
	RegisterTestingT(t)

	path := filepath.Join(t.TempDir(), "prompts.csv")
	content := "id,prompt,model\n1,describe a sunset,google/gemini-2.5-flash\n2,list three colors,google/gemini-2.5-pro\n"
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())

	rows, err := ReadFile[promptRow](path)
	Expect(err).To(BeNil())
	Expect(rows).To(HaveLen(2))
	Expect(rows[0]).To(Equal(promptRow{ID: 1, Prompt: "describe a sunset", Model: "google/gemini-2.5-flash"}))
	Expect(rows[1].ID).To(Equal(2))
}

func TestReadTrimsHeaderWhitespace(t *testing.T) {
	RegisterTestingT(t)

	rows, err := Read[promptRow](strings.NewReader("id, prompt , model\n1,hello,flash\n"))
	Expect(err).To(BeNil())
	Expect(rows[0].Prompt).To(Equal("hello"))
	Expect(rows[0].Model).To(Equal("flash"))
}

func TestReadFileMissing(t *testing.T) {
	RegisterTestingT(t)

	_, err := ReadFile[promptRow](filepath.Join(t.TempDir(), "nope.csv"))
	Expect(err).ToNot(BeNil())
}

func TestWriteFileRoundTrip(t *testing.T) {
	RegisterTestingT(t)

	path := filepath.Join(t.TempDir(), "out", "results.csv")
	rows := []promptRow{
		{ID: 1, Prompt: "hello", Model: "flash"},
		{ID: 2, Prompt: "goodbye", Model: "pro"},
	}
	Expect(WriteFile(path, rows)).To(Succeed())

	back, err := ReadFile[promptRow](path)
	Expect(err).To(BeNil())
	Expect(back).To(Equal(rows))
}
