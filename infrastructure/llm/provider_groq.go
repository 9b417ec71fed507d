package llm

// Groq serves llama and mixtral models through an OpenAI-compatible API,
// so the provider is the OpenAI implementation pointed at Groq's
// endpoint.
const (
	// GroqBaseURL is Groq's OpenAI-compatible endpoint.
	GroqBaseURL = "https://api.groq.com/openai/v1"
	// GroqDefaultModel is used when no model is configured for the
	// "groq" provider type.
	GroqDefaultModel = "llama-3.3-70b-versatile"
)

func init() {
	RegisterProviderFactory("groq", newGroqProvider)
}

// newGroqProvider creates a provider against Groq's API. A BaseURL in
// the config still wins, which keeps the provider testable against a
// local fake endpoint.
func newGroqProvider(config ClientConfig) (CoreLLM, error) {
	if config.BaseURL == "" {
		config.BaseURL = GroqBaseURL
	}
	return newOpenAICompatProvider("groq", config, GroqDefaultModel)
}
