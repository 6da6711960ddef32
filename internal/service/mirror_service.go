package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/domain"

	"github.com/rs/zerolog"
)

// mirrorRetryIntervals spaces out redelivery attempts for a failed push.
var mirrorRetryIntervals = []time.Duration{
	15 * time.Second,
	60 * time.Second,
	5 * time.Minute,
}

// mirrorMaxInFlight caps concurrent deliveries. During a prolonged mirror
// outage further records are dropped instead of piling up goroutines; the
// local store remains the source of truth.
const mirrorMaxInFlight = 64

// MirrorPayload is the JSON document pushed to the remote store.
type MirrorPayload struct {
	TransactionID string `json:"transaction_id"`
	UserID        string `json:"user_id"`
	Kind          string `json:"kind"`
	Amount        int64  `json:"amount"`
	Fee           int64  `json:"fee"`
	Total         int64  `json:"total"`
	Status        string `json:"status"`
	ReceiptID     string `json:"receipt_id"`
	CreatedAt     int64  `json:"created_at"`
}

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPMirrorService implements ports.MirrorService by POSTing committed
// transaction records to a remote document endpoint. Delivery is
// asynchronous and best-effort: the local store is the source of truth and
// the mirror catches up eventually; a ledger operation never waits on it.
type HTTPMirrorService struct {
	url        string
	httpClient HTTPClient
	log        zerolog.Logger
	inFlight   chan struct{}
}

// NewHTTPMirrorService creates a mirror pushing to the given URL.
func NewHTTPMirrorService(url string, httpClient HTTPClient, log zerolog.Logger) *HTTPMirrorService {
	return &HTTPMirrorService{
		url:        url,
		httpClient: httpClient,
		log:        log,
		inFlight:   make(chan struct{}, mirrorMaxInFlight),
	}
}

// EnqueueTransaction schedules an async push of the record. Returns an error
// only if the payload cannot be serialized.
func (s *HTTPMirrorService) EnqueueTransaction(ctx context.Context, txn *domain.Transaction) error {
	payload := MirrorPayload{
		TransactionID: txn.ID.String(),
		UserID:        txn.UserID.String(),
		Kind:          string(txn.Kind),
		Amount:        int64(txn.Amount),
		Fee:           int64(txn.Fee),
		Total:         int64(txn.Total),
		Status:        string(txn.Status),
		ReceiptID:     txn.ReceiptID,
		CreatedAt:     txn.CreatedAt.Unix(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal mirror payload: %w", err)
	}

	select {
	case s.inFlight <- struct{}{}:
	default:
		s.log.Warn().Str("tx_id", payload.TransactionID).Msg("mirror at capacity, record dropped")
		return nil
	}

	// Detach from the request context so a finished HTTP request does not
	// cancel the delivery.
	go func() {
		defer func() { <-s.inFlight }()
		s.deliver(context.WithoutCancel(ctx), payload.TransactionID, body)
	}()
	return nil
}

// deliver attempts the push with retries.
func (s *HTTPMirrorService) deliver(ctx context.Context, txID string, body []byte) {
	for attempt := 0; ; attempt++ {
		err := s.push(ctx, body)
		if err == nil {
			s.log.Debug().Str("tx_id", txID).Int("attempt", attempt+1).Msg("transaction mirrored")
			return
		}
		if attempt >= len(mirrorRetryIntervals) {
			s.log.Warn().Err(err).Str("tx_id", txID).Msg("mirror delivery gave up")
			return
		}
		s.log.Debug().Err(err).Str("tx_id", txID).Int("attempt", attempt+1).Msg("mirror delivery failed, will retry")
		select {
		case <-ctx.Done():
			return
		case <-time.After(mirrorRetryIntervals[attempt]):
		}
	}
}

func (s *HTTPMirrorService) push(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mirror request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push mirror: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mirror endpoint returned %d", resp.StatusCode)
	}
	return nil
}
