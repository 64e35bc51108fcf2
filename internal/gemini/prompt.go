// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

const promptPrefix = "You are a helpful medical AI assistant. Provide accurate, safe medical " +
	"information while always including appropriate disclaimers. Your response should be " +
	"helpful but emphasize that this is not a substitute for professional medical advice. " +
	"\n\nUser question: "

const promptSuffix = "\n\nImportant: Always end your response with a reminder to consult " +
	"healthcare professionals for serious concerns or emergencies."

// BuildPrompt wraps the raw user text in the medical-safety instruction.
// The user text is inserted verbatim.
func BuildPrompt(userText string) string {
	return promptPrefix + userText + promptSuffix
}
