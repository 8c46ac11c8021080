package mdcode

// Fence is a fenced code block found in a Markdown document.
type Fence struct {
	Info      string
	Header    *Header
	Body      []byte
	StartLine int
	EndLine   int
}

// Lang returns the first word of the info string. It is empty for blocks
// carrying a header.
func (f *Fence) Lang() string {
	if f.Header != nil {
		return ""
	}

	for i, r := range f.Info {
		if r == ' ' || r == '\t' || r == '{' {
			return f.Info[:i]
		}
	}

	return f.Info
}

// Tag returns the header tag, or an empty string for plain code blocks.
func (f *Fence) Tag() string {
	if f.Header == nil {
		return ""
	}

	return f.Header.Tag
}

type Fences []*Fence
