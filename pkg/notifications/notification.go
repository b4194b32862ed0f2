package notifications

import (
	"bytes"
	"encoding/json"
	"time"
)

// TimestampLayout is the format of Notification.CreatedAt.
const TimestampLayout = "2006-01-02 15:04:05"

// Notification is a single relayed event. Optional fields are nil when absent
// and are encoded as JSON null.
type Notification struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Message   *string `json:"message"`
	URL       *string `json:"url"`
	Icon      *string `json:"icon"`
	Color     *string `json:"color"`
	CreatedAt string  `json:"createdAt"`
}

// Clone returns a copy that shares no memory with n.
func (n Notification) Clone() Notification {
	n.Message = cloneString(n.Message)
	n.URL = cloneString(n.URL)
	n.Icon = cloneString(n.Icon)
	n.Color = cloneString(n.Color)
	return n
}

// FormatTimestamp renders t in local time using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}

// Encode returns the compact JSON form used on the event stream.
// Non-ASCII and HTML characters are written literally.
func Encode(n Notification) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(n); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
