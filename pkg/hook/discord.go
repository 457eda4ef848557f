package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Discord posts shop notifications to a Discord webhook.
// An empty webhook url disables the notification.
type Discord struct {
	hookURL string
	client  http.Client
}

func New(catalogHook string) *Discord {
	return &Discord{
		hookURL: catalogHook,
		client:  http.Client{Timeout: 10 * time.Second},
	}
}

// SendCatalog announces a freshly generated catalog
func (d *Discord) SendCatalog(ctx context.Context, products, images, warnings int) error {
	message := fmt.Sprintf("👕	**Catalog generated:** %d products, %d images", products, images)
	if warnings > 0 {
		message += fmt.Sprintf(", %d warnings", warnings)
	}

	return d.sendWebhook(ctx, message)
}

func (d *Discord) sendWebhook(ctx context.Context, message string) error {
	if d.hookURL == "" {
		return nil
	}

	body := struct {
		Content string `json:"content"`
	}{
		Content: message,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("could not marshal data for Discord webhook")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.hookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("could not create Discord webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("could not send Discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("invalid response code from Discord webhook: %d", resp.StatusCode)
	}

	return nil
}
