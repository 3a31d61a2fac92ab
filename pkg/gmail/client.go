package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// user is the Gmail API alias for the authenticated account.
const user = "me"

// Client wraps the Gmail API service.
type Client struct {
	service *gmailapi.Service
}

// NewClientFromCredentialsFile creates a Gmail client from an OAuth
// Desktop credentials JSON file path plus a previously saved token.
func NewClientFromCredentialsFile(ctx context.Context, credentialsPath, tokenPath string) (*Client, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return NewClientFromCredentialsJSON(ctx, data, tokenPath)
}

// NewClientFromCredentialsJSON creates a Gmail client from raw OAuth
// Desktop credentials JSON bytes and a saved token at tokenPath.
func NewClientFromCredentialsJSON(ctx context.Context, credentialsJSON []byte, tokenPath string) (*Client, error) {
	oauthConfig, err := google.ConfigFromJSON(credentialsJSON, gmailapi.GmailModifyScope)
	if err != nil {
		return nil, fmt.Errorf("unsupported credentials format: %w", err)
	}

	if tokenPath == "" {
		tokenPath = "token.json"
	}
	tokenData, err := os.ReadFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("no saved token at %s: run scripts/gcal-auth first", tokenPath)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(tokenData, &tok); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", tokenPath, err)
	}

	svc, err := gmailapi.NewService(ctx, option.WithTokenSource(oauthConfig.TokenSource(ctx, &tok)))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return &Client{service: svc}, nil
}

// NewClientFromHTTP creates a Gmail client from a pre-configured HTTP
// client.
func NewClientFromHTTP(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := gmailapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return &Client{service: svc}, nil
}

// BuildSearchQuery assembles the two-arm unread-notification query:
// messages from the sender with the subject keyword, with or without
// attachments.
func BuildSearchQuery(sender, subjectKeyword string) string {
	return fmt.Sprintf(
		"(from:%s has:attachment is:unread subject:%q) OR (from:%s is:unread subject:%q -has:attachment)",
		sender, subjectKeyword, sender, subjectKeyword,
	)
}

// SearchMessages returns the ids of all messages matching the query,
// following pagination.
func (c *Client) SearchMessages(ctx context.Context, query string) ([]string, error) {
	var ids []string
	pageToken := ""
	for {
		call := c.service.Users.Messages.List(user).Q(query).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to search messages: %w", err)
		}
		for _, m := range resp.Messages {
			ids = append(ids, m.Id)
		}
		if resp.NextPageToken == "" {
			return ids, nil
		}
		pageToken = resp.NextPageToken
	}
}

// GetMessage fetches the full message, including its MIME tree.
func (c *Client) GetMessage(ctx context.Context, id string) (*Message, error) {
	msg, err := c.service.Users.Messages.Get(user, id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, err)
	}

	m := &Message{ID: msg.Id, Snippet: msg.Snippet, payload: msg.Payload}
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			if strings.EqualFold(h.Name, "Subject") {
				m.Subject = h.Value
				break
			}
		}
	}
	return m, nil
}

// FetchAttachments downloads every attachment of the message.
func (c *Client) FetchAttachments(ctx context.Context, msg *Message) ([]Attachment, error) {
	if msg == nil || msg.payload == nil {
		return nil, nil
	}

	var attachments []Attachment
	var walk func(part *gmailapi.MessagePart) error
	walk = func(part *gmailapi.MessagePart) error {
		if part.Filename != "" && part.Body != nil {
			data, err := c.attachmentData(ctx, msg.ID, part.Body)
			if err != nil {
				return fmt.Errorf("attachment %q: %w", part.Filename, err)
			}
			attachments = append(attachments, Attachment{Filename: part.Filename, Data: data})
		}
		for _, sub := range part.Parts {
			if err := walk(sub); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(msg.payload); err != nil {
		return nil, err
	}
	return attachments, nil
}

// attachmentData returns the body bytes, fetching by attachment id when
// the data is not inlined.
func (c *Client) attachmentData(ctx context.Context, messageID string, body *gmailapi.MessagePartBody) ([]byte, error) {
	encoded := body.Data
	if encoded == "" && body.AttachmentId != "" {
		att, err := c.service.Users.Messages.Attachments.Get(user, messageID, body.AttachmentId).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to download attachment: %w", err)
		}
		encoded = att.Data
	}
	if encoded == "" {
		return nil, nil
	}
	return decodeBase64URL(encoded)
}

// BodyText extracts the plain-text body from the message's MIME tree.
// Returns "" when the message has no text part.
func BodyText(msg *Message) string {
	if msg == nil || msg.payload == nil {
		return ""
	}

	var text strings.Builder
	var walk func(part *gmailapi.MessagePart)
	walk = func(part *gmailapi.MessagePart) {
		if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
			if data, err := decodeBase64URL(part.Body.Data); err == nil {
				text.Write(data)
			}
		}
		for _, sub := range part.Parts {
			walk(sub)
		}
	}
	walk(msg.payload)
	return text.String()
}

// MarkAsRead removes the UNREAD label from the message.
func (c *Client) MarkAsRead(ctx context.Context, id string) error {
	_, err := c.service.Users.Messages.Modify(user, id, &gmailapi.ModifyMessageRequest{
		RemoveLabelIds: []string{"UNREAD"},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to mark message %s read: %w", id, err)
	}
	return nil
}

// decodeBase64URL handles both padded and unpadded web-safe base64,
// which the Gmail API mixes freely.
func decodeBase64URL(s string) ([]byte, error) {
	if data, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.URLEncoding.DecodeString(s)
}
