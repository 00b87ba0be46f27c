// Copyright 2024 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vertexai

import (
	"context"
	"fmt"
	"sync"
)

// Chat is a multi-turn conversation with a GenerativeModel.
//
// A Chat sends one message at a time. Calling SendMessage while another call is in flight fails
// with an InvalidState error.
type Chat struct {
	model *GenerativeModel

	mu      sync.Mutex
	history []*Content
}

// StartChat starts a conversation that continues from the given history.
func (m *GenerativeModel) StartChat(history ...*Content) *Chat {
	return &Chat{
		model:   m,
		history: append([]*Content(nil), history...),
	}
}

// History returns the messages exchanged so far.
func (c *Chat) History() []*Content {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Content(nil), c.history...)
}

// SendMessage sends a user message made of the given parts.
func (c *Chat) SendMessage(ctx context.Context, parts ...Part) (*GenerateContentResponse, error) {
	return c.SendMessageContent(ctx, NewUserContent(parts...))
}

// SendMessageContent sends the given message, which must have the user or function role.
//
// On success, the message and the content of the first candidate are appended to the history.
// On failure, the history is left unchanged.
func (c *Chat) SendMessageContent(ctx context.Context, prompt *Content) (*GenerateContentResponse, error) {
	c.model.metrics.request(methodSendMessage)
	if prompt == nil || (prompt.Role != RoleUser && prompt.Role != RoleFunction) {
		role := ""
		if prompt != nil {
			role = prompt.Role
		}
		err := NewInvalidStateError(
			fmt.Sprintf("Chat prompts should come from the %q or %q role, not %q", RoleUser, RoleFunction, role), nil)
		return nil, c.model.fail(methodSendMessage, err)
	}

	if !c.mu.TryLock() {
		err := NewInvalidStateError(
			"This chat instance currently has an ongoing request, please wait for it to complete "+
				"before sending more messages", nil)
		return nil, c.model.fail(methodSendMessage, err)
	}
	defer c.mu.Unlock()

	contents := make([]*Content, 0, len(c.history)+1)
	contents = append(contents, c.history...)
	contents = append(contents, prompt)

	resp, err := c.model.generateContent(ctx, methodSendMessage, contents)
	if err != nil {
		return nil, err
	}

	c.history = append(c.history, prompt)
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		reply := *resp.Candidates[0].Content
		reply.Role = RoleModel
		c.history = append(c.history, &reply)
	}
	return resp, nil
}
