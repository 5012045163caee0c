/*
Package summary converts a bounded window of chat history into a short
natural-language summary using a hosted language model.

This file holds the versioned prompt template. The instruction text is a
prompt-engineering artifact: change it only together with PromptVersion so
prompt-format changes stay auditable.
*/
package summary

// PromptVersion identifies the current revision of the prompt template.
const PromptVersion = "v1"

// systemInstruction is the fixed instruction sent as the system message. It
// pins the output format (bullet points), the focus (topics, decisions, action
// items), forbids verbatim quoting, and embeds a short worked example.
const systemInstruction = `You are a chat summarization assistant. You will receive a chat conversation wrapped in triple quotes, one message per line.

Summarize the conversation as a short list of bullet points. Focus on the topics discussed, decisions made, and action items agreed on. Do not quote any message verbatim. Do not add commentary outside the bullet points.

Example conversation:
"""
dana: the staging deploy failed again
lee: looks like the config image is stale
dana: ok, I'll rebuild it tonight
lee: ping me when it's up and I'll rerun the smoke tests
"""

Example summary:
- Staging deploy failures were traced to a stale config image.
- Dana will rebuild the image tonight.
- Lee will rerun the smoke tests once the rebuild is up.`

// renderUserPrompt wraps the joined conversation block in triple quotes,
// matching the wrapper the instruction describes.
func renderUserPrompt(conversation string) string {
	return `"""` + conversation + `"""`
}
