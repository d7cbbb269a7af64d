package runtime

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/jhillyerd/enmime"
	"github.com/k3a/html2text"
	"google.golang.org/api/gmail/v1"

	gc "github.com/Addarsh/Email-Integration/internal/gmail"
)

// decodeMessage turns a raw-format API message into the envelope fields the
// indexer stores. The payload is URL-safe base64 with inconsistent padding,
// so padding is stripped before decoding.
func decodeMessage(msg *gmail.Message) (gc.Message, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(msg.Raw, "="))
	if err != nil {
		return gc.Message{}, fmt.Errorf("decode message %s: %w", msg.Id, err)
	}

	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return gc.Message{}, fmt.Errorf("parse message %s: %w", msg.Id, err)
	}

	body := env.Text
	if body == "" && env.HTML != "" {
		body = html2text.HTML2Text(env.HTML)
	}

	return gc.Message{
		ID:            gc.MessageID(msg.Id),
		Sender:        env.GetHeader("From"),
		Recipient:     env.GetHeader("To"),
		Subject:       env.GetHeader("Subject"),
		PlainTextBody: body,
		ReceivedAt:    time.UnixMilli(msg.InternalDate),
	}, nil
}
