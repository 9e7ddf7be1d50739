package testutil

// MockPrompt is a scripted prompt.Handler implementation for tests: it
// answers ask_yes_no calls from a fixed script instead of reading stdin.
type MockPrompt struct {
	Answers []bool
	index   int
	Asked   []string
}

// AskYesNo records the question and returns the next scripted answer,
// or def if the script is exhausted.
func (m *MockPrompt) AskYesNo(question string, def bool) bool {
	m.Asked = append(m.Asked, question)
	if m.index >= len(m.Answers) {
		return def
	}
	answer := m.Answers[m.index]
	m.index++
	return answer
}

// ForceMode always reports no forced answer; tests that need a forced
// answer use ForcedPrompt.
func (m *MockPrompt) ForceMode() (value bool, forced bool) {
	return false, false
}

// ForcedPrompt is a prompt.Handler that never asks and always returns
// the configured forced answer, modelling --yes/--no CLI flags.
type ForcedPrompt struct {
	Answer bool
}

func (f *ForcedPrompt) AskYesNo(question string, def bool) bool {
	return f.Answer
}

func (f *ForcedPrompt) ForceMode() (value bool, forced bool) {
	return f.Answer, true
}
