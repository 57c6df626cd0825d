// Package prompt builds the prompts and message lists shared by the
// routing, judging and answering steps.
package prompt

import (
	"fmt"
	"strings"

	"ai-support-chat-be/internal/session"
	"ai-support-chat-be/pkg/llm"
	"ai-support-chat-be/pkg/retrieval"
)

// HistoryLimit caps how many trailing turns are handed to the model.
const HistoryLimit = 10

// Messages maps conversation turns to provider messages, keeping only
// the trailing HistoryLimit turns.
func Messages(history []session.Turn) []llm.Message {
	if len(history) > HistoryLimit {
		history = history[len(history)-HistoryLimit:]
	}
	messages := make([]llm.Message, 0, len(history))
	for _, turn := range history {
		role := turn.Speaker
		if role == session.SpeakerAssistant {
			role = "assistant"
		}
		messages = append(messages, llm.Message{
			Role:    role,
			Content: turn.Text,
		})
	}
	return messages
}

// LatestQuestion returns the text of the last user turn, or "".
func LatestQuestion(history []session.Turn) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Speaker == session.SpeakerUser {
			return history[i].Text
		}
	}
	return ""
}

// Router builds the route-classification prompt.
func Router(history []session.Turn) string {
	var p strings.Builder

	p.WriteString("You are a router that decides how to handle user queries:\n")
	p.WriteString("- Use 'retrieve' when knowledge base lookup is required.\n")
	p.WriteString("- Use 'answer' whenever the query can be answered directly without external info,\n")
	p.WriteString("  including pure greetings or small-talk.\n\n")

	writeConversation(&p, history)

	p.WriteString("<question>\n")
	p.WriteString(LatestQuestion(history))
	p.WriteString("\n</question>\n\n")

	p.WriteString("Respond with ONLY valid JSON:\n")
	p.WriteString("{\"route\": \"retrieve|answer\"}")

	return p.String()
}

// Judge builds the sufficiency-judgment prompt.
func Judge(history []session.Turn, passages []retrieval.Passage) string {
	var p strings.Builder

	p.WriteString("You are a judge evaluating if the retrieved information is sufficient\n")
	p.WriteString("to answer the user's question. Consider both relevance and completeness.\n\n")

	writeConversation(&p, history)

	p.WriteString("<question>\n")
	p.WriteString(LatestQuestion(history))
	p.WriteString("\n</question>\n\n")

	p.WriteString("<retrieved_context>\n")
	if len(passages) == 0 {
		p.WriteString("(nothing retrieved)\n")
	} else {
		for i, passage := range passages {
			p.WriteString(fmt.Sprintf("[%d] (source: %s)\n%s\n\n", i+1, passage.Source, passage.Text))
		}
	}
	p.WriteString("</retrieved_context>\n\n")

	p.WriteString("Is this sufficient to answer the question?\n")
	p.WriteString("Respond with ONLY valid JSON:\n")
	p.WriteString("{\"sufficient\": true, \"reasoning\": \"brief explanation\"}")

	return p.String()
}

// Grounded builds the context-grounded answering prompt that replaces
// the latest user message in the provider call. The stored history is
// never rewritten.
func Grounded(question string, passages []retrieval.Passage) string {
	var p strings.Builder

	p.WriteString("You are a highly skilled support chatbot with access to a knowledge base.\n")
	p.WriteString("Use the following pieces of retrieved context to answer the question\n")
	p.WriteString("while maintaining conversation flow.\n\n")

	p.WriteString("<context>\n")
	for _, passage := range passages {
		p.WriteString(passage.Text)
		p.WriteString("\n\n")
	}
	p.WriteString("</context>\n\n")

	p.WriteString("<question>\n")
	p.WriteString(question)
	p.WriteString("\n</question>\n\n")

	p.WriteString("Instructions:\n")
	p.WriteString("- Provide detailed answers when the context supports it\n")
	p.WriteString("- Use your general knowledge if the context doesn't cover the question\n")
	p.WriteString("- If you don't know the answer, say \"I don't have enough information to answer that question\"\n")
	p.WriteString("- Be concise, helpful, and professional\n")
	p.WriteString("- Don't mention that you're using provided context")

	return p.String()
}

func writeConversation(p *strings.Builder, history []session.Turn) {
	if len(history) < 2 {
		return
	}
	p.WriteString("<conversation>\n")
	prior := history[:len(history)-1]
	if len(prior) > HistoryLimit {
		prior = prior[len(prior)-HistoryLimit:]
	}
	for _, turn := range prior {
		p.WriteString(fmt.Sprintf("%s: %s\n", turn.Speaker, turn.Text))
	}
	p.WriteString("</conversation>\n\n")
}
