// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package groq implements the client for Groq's OpenAI-compatible chat
// completions API.
//
// # Key Types
//
//   - Client: HTTP client for POST {base_url}/chat/completions
//   - ChatMessage, ChatRequest, ChatResponse: wire types
//   - ClientError: typed errors with an ErrorType for display decisions
//
// # Usage
//
//	client := groq.NewClient(apiKey)
//	resp, err := client.Complete(ctx, messages)
//	if err != nil {
//	    // callers render a friendly fallback; err carries the detail
//	}
//	content := resp.GetContent()
//
// Requests are non-streaming and made once per turn with no retry; on
// failure the conversational loop surfaces a fallback message instead.
package groq
