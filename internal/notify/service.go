package notify

import (
	"context"
	"strings"

	"github.com/Digital-Shane/trailer-tidy/internal/provider"
	"github.com/hashicorp/go-hclog"
)

const defaultSignature = "trailer-tidy"

// Outcome is the user-facing result of a notification request. Failures are
// reported here rather than as errors.
type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// BestFinder resolves the single best trailer for a search.
type BestFinder interface {
	FindBest(ctx context.Context, searchText string) (*provider.TrailerRecord, error)
}

// Message is a rendered email ready for a transport.
type Message struct {
	From     string
	To       string
	Subject  string
	HTMLBody string
}

// Mailer delivers a message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Config wires a Service.
type Config struct {
	Finder    BestFinder
	Mailer    Mailer
	From      string
	Signature string
	Logger    hclog.Logger
}

// Service emails the best trailer for a search.
type Service struct {
	finder    BestFinder
	mailer    Mailer
	from      string
	signature string
	logger    hclog.Logger
}

// NewService constructs a notification service.
func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	signature := cfg.Signature
	if signature == "" {
		signature = defaultSignature
	}
	return &Service{
		finder:    cfg.Finder,
		mailer:    cfg.Mailer,
		from:      cfg.From,
		signature: signature,
		logger:    logger.Named("notify"),
	}
}

// SendTrailer validates the request, resolves the best trailer and mails it.
// A lookup failure is logged and mailed as "not found"; the outcome then
// depends only on the transport.
func (s *Service) SendTrailer(ctx context.Context, searchText, emailAddress string) Outcome {
	if outcome, ok := validate(searchText, emailAddress); !ok {
		return outcome
	}

	var best *provider.TrailerRecord
	if s.finder != nil {
		found, err := s.finder.FindBest(ctx, searchText)
		if err != nil {
			s.logger.Warn("best trailer lookup failed", "query", searchText, "error", err)
		} else {
			best = found
		}
	}

	return s.Notify(ctx, searchText, emailAddress, best)
}

// Notify renders and sends the result email for best, which may be nil.
func (s *Service) Notify(ctx context.Context, searchText, emailAddress string, best *provider.TrailerRecord) Outcome {
	if outcome, ok := validate(searchText, emailAddress); !ok {
		return outcome
	}
	searchText = strings.TrimSpace(searchText)
	emailAddress = strings.TrimSpace(emailAddress)

	body, err := RenderBody(searchText, best, s.signature)
	if err != nil {
		s.logger.Error("failed to render email", "query", searchText, "error", err)
		return Outcome{Success: false, Message: msgRetryLater}
	}

	if s.mailer == nil {
		s.logger.Error("no email transport configured")
		return Outcome{Success: false, Message: msgRetryLater}
	}

	msg := Message{
		From:     s.from,
		To:       emailAddress,
		Subject:  Subject(searchText),
		HTMLBody: body,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("failed to send email", "to", emailAddress, "subject", msg.Subject, "error", err)
		return Outcome{Success: false, Message: msgRetryLater}
	}

	s.logger.Info("sent trailer email", "to", emailAddress, "found", best != nil)
	return Outcome{Success: true, Message: msgSent}
}
