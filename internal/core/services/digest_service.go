package services

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
)

type EmailSender interface {
	Send(ctx context.Context, msg domain.EmailMessage) error
}

type DigestService struct {
	users   domain.UserRepository
	leaders domain.LeaderRepository
	todos   *TodoService
	sender  EmailSender
	links   *LinkService
	clock   domain.Clock
	baseURL string
	md      goldmark.Markdown
}

func NewDigestService(
	users domain.UserRepository,
	leaders domain.LeaderRepository,
	todos *TodoService,
	sender EmailSender,
	links *LinkService,
	clock domain.Clock,
	baseURL string,
) *DigestService {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &DigestService{
		users:   users,
		leaders: leaders,
		todos:   todos,
		sender:  sender,
		links:   links,
		clock:   clock,
		baseURL: strings.TrimRight(baseURL, "/"),
		md:      goldmark.New(),
	}
}

func (s *DigestService) Recipients(ctx context.Context) ([]*domain.User, error) {
	return s.users.ListDigestRecipients(ctx)
}

func (s *DigestService) Build(ctx context.Context, user *domain.User, today time.Time) (*domain.Digest, error) {
	due, err := s.todos.dueOn(ctx, user.ID, today)
	if err != nil {
		return nil, fmt.Errorf("digest: load todos for %s: %w", user.ID, err)
	}

	followUps, err := s.leaders.ListFollowUpsDue(ctx, user.ID, today)
	if err != nil {
		return nil, fmt.Errorf("digest: load follow-ups for %s: %w", user.ID, err)
	}

	return &domain.Digest{
		Recipient:    *user,
		Date:         today,
		OverdueTodos: due.Overdue,
		TodayTodos:   due.Today,
		FollowUps:    followUps,
	}, nil
}

func (s *DigestService) actionLink(userID, todoID string) string {
	if s.links == nil {
		return ""
	}
	token, err := s.links.Sign(userID, todoID, ActionCompleteTodo)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s/api/v1/digest/complete?token=%s", s.baseURL, url.QueryEscape(token))
}

func (s *DigestService) writeTodos(b *strings.Builder, title string, userID string, todos []*domain.Todo) {
	if len(todos) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s (%d)\n\n", title, len(todos))
	for _, t := range todos {
		line := "- " + escapeMarkdown(t.Text)
		if t.DueDate != nil {
			line += fmt.Sprintf(" (due %s)", t.DueDate.Format("Jan 2"))
		}
		if label := t.RepeatLabel(); label != "" {
			line += " · " + label
		}
		if link := s.actionLink(userID, t.ID); link != "" {
			line += fmt.Sprintf(" [Mark done](%s)", link)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
}

// Render produces the email for a digest. The body is written as Markdown
// and converted to HTML; the Markdown doubles as the plain-text part.
func (s *DigestService) Render(d *domain.Digest) (domain.EmailMessage, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# Good morning, %s\n\n", escapeMarkdown(d.Recipient.DisplayName()))
	fmt.Fprintf(&b, "Here is what needs your attention on %s.\n\n", d.Date.Format("Monday, January 2"))

	s.writeTodos(&b, "Overdue", d.Recipient.ID, d.OverdueTodos)
	s.writeTodos(&b, "Due today", d.Recipient.ID, d.TodayTodos)

	if len(d.FollowUps) > 0 {
		fmt.Fprintf(&b, "## Follow-ups (%d)\n\n", len(d.FollowUps))
		for _, l := range d.FollowUps {
			line := "- " + escapeMarkdown(l.Name)
			if l.Campus != "" {
				line += " · " + escapeMarkdown(l.Campus)
			}
			if l.FollowUpDate != nil {
				line += fmt.Sprintf(" (since %s)", l.FollowUpDate.Format("Jan 2"))
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	if s.baseURL != "" {
		fmt.Fprintf(&b, "[Open the dashboard](%s)\n", s.baseURL)
	}

	text := b.String()

	var html bytes.Buffer
	if err := s.md.Convert([]byte(text), &html); err != nil {
		return domain.EmailMessage{}, fmt.Errorf("digest: render markdown: %w", err)
	}

	return domain.EmailMessage{
		To:      d.Recipient.Email,
		Subject: fmt.Sprintf("Circle Leader digest for %s: %d items", d.Date.Format("Mon, Jan 2"), d.ItemCount()),
		HTML:    html.String(),
		Text:    text,
	}, nil
}

// SendTo builds and mails today's digest for one user. It reports false
// without error when the user opted out or has nothing due.
func (s *DigestService) SendTo(ctx context.Context, userID string) (bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if !user.CanReceiveDigest() {
		return false, nil
	}

	digest, err := s.Build(ctx, user, domain.Today(s.clock))
	if err != nil {
		return false, err
	}
	if digest.IsEmpty() {
		return false, nil
	}

	msg, err := s.Render(digest)
	if err != nil {
		return false, err
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		return false, fmt.Errorf("digest: send to %s: %w", user.Email, err)
	}
	return true, nil
}

// CompleteFromLink completes the todo referenced by a signed digest link.
func (s *DigestService) CompleteFromLink(ctx context.Context, token string) (*domain.Todo, error) {
	if s.links == nil {
		return nil, domain.ErrInvalidLinkToken
	}
	claims, err := s.links.Parse(token)
	if err != nil {
		return nil, err
	}
	if claims.Action != ActionCompleteTodo {
		return nil, domain.ErrInvalidLinkToken
	}
	return s.todos.Complete(ctx, claims.TodoID, claims.UserID)
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`, "`", "\\`", "<", "&lt;", ">", "&gt;",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
