package llm

import (
	"fmt"
	"strings"

	"github.com/use-agent/listingkit/models"
)

// Mode selects how many titles a request asks for.
type Mode int

const (
	// ModeMulti asks for a list of MultiTitleCount titles, one per line.
	ModeMulti Mode = iota
	// ModeSingle asks for exactly one title built from the keyword and the
	// optional product details.
	ModeSingle
)

// MultiTitleCount is the number of titles a multi-mode prompt asks for.
const MultiTitleCount = 5

// DefaultLanguage is used when Input.Language is empty.
const DefaultLanguage = "en"

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	default:
		return "multi"
	}
}

// ParseMode maps "single" / "multi" to a Mode. An empty string is multi.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "multi":
		return ModeMulti, nil
	case "single":
		return ModeSingle, nil
	default:
		return ModeMulti, models.NewError(models.ErrCodeInvalidInput, fmt.Sprintf("unknown mode %q", s), nil)
	}
}

// Params are the sampling parameters sent with a request.
type Params struct {
	MaxOutputTokens  int64
	Temperature      float64
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
}

// Fixed per mode. Multi needs room for MultiTitleCount lines.
var (
	MultiParams = Params{
		MaxOutputTokens:  500,
		Temperature:      0.7,
		TopP:             1.0,
		FrequencyPenalty: 0,
		PresencePenalty:  0,
	}
	SingleParams = Params{
		MaxOutputTokens:  60,
		Temperature:      0.7,
		TopP:             1.0,
		FrequencyPenalty: 0,
		PresencePenalty:  0,
	}
)

// Input is the seed for a title request.
type Input struct {
	Keyword string

	// Single mode only. Empty fields are left out of the prompt.
	Brand         string
	Category      string
	SellingPoints string

	Language string
}

// Request is a fully built generation request. It is a plain value: building
// it twice from the same Input yields equal Requests.
type Request struct {
	Mode        Mode
	Language    string
	Instruction string // system message
	UserPrompt  string
	Params      Params
}

const (
	multiInstruction  = "You are an expert Amazon copywriter who provides a list of 5 product titles."
	singleInstruction = "You are an expert Amazon copywriter who provides exactly one product title."
)

// Build turns an Input into a Request for the given mode.
func Build(mode Mode, in Input) (Request, error) {
	keyword := strings.TrimSpace(in.Keyword)
	if keyword == "" {
		return Request{}, models.NewError(models.ErrCodeInvalidInput, "product keywords are required", nil)
	}

	lang := strings.TrimSpace(in.Language)
	if lang == "" {
		lang = DefaultLanguage
	}

	switch mode {
	case ModeSingle:
		return Request{
			Mode:        ModeSingle,
			Language:    lang,
			Instruction: singleInstruction,
			UserPrompt:  singlePrompt(keyword, lang, in),
			Params:      SingleParams,
		}, nil
	case ModeMulti:
		return Request{
			Mode:        ModeMulti,
			Language:    lang,
			Instruction: multiInstruction,
			UserPrompt:  multiPrompt(keyword, lang),
			Params:      MultiParams,
		}, nil
	default:
		return Request{}, models.NewError(models.ErrCodeInvalidInput, fmt.Sprintf("unknown mode %d", mode), nil)
	}
}

func multiPrompt(keyword, lang string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert Amazon copywriter. Your task is to generate %d compelling and SEO-friendly product titles in %s for a product with the following keywords.", MultiTitleCount, lang)
	fmt.Fprintf(&b, "\n\nProduct Keywords: \"%s\"", keyword)
	b.WriteString("\n\nRules:\n")
	b.WriteString("- Each title should be unique.\n")
	b.WriteString("- Each title must include the core keywords.\n")
	b.WriteString("- Titles should be optimized for Amazon's search algorithm.\n")
	fmt.Fprintf(&b, "- Return the %d titles separated by a newline character (\\n), one title per line, with no other text or formatting.", MultiTitleCount)
	return b.String()
}

func singlePrompt(keyword, lang string, in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert Amazon copywriter. Write one compelling and SEO-friendly product title in %s for the product described below.", lang)
	fmt.Fprintf(&b, "\n\nProduct Keywords: \"%s\"", keyword)

	// Fixed order: brand, category, selling points.
	for _, line := range []struct{ label, value string }{
		{"Brand", in.Brand},
		{"Category", in.Category},
		{"Selling Points", in.SellingPoints},
	} {
		if v := strings.TrimSpace(line.value); v != "" {
			fmt.Fprintf(&b, "\n%s: %s", line.label, v)
		}
	}

	b.WriteString("\n\nRules:\n")
	b.WriteString("- The title must include the core keywords.\n")
	b.WriteString("- Return only the title text, without quotes, numbering or explanation.")
	return b.String()
}
