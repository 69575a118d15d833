package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ashureev/retronet/internal/domain"
)

// ArticleType selects one of the fixed article title templates.
type ArticleType int

const (
	ArticleFansStruggle ArticleType = 1
	ArticleAvoiding     ArticleType = 2
	ArticleReadThis     ArticleType = 3
)

// FallbackHook is used whenever a hook cannot be generated.
const FallbackHook = "This article knows more about you than you think."

const defaultInterest = "Your Interest"

// ErrUnknownArticleType is returned for article types outside 1..3.
var ErrUnknownArticleType = errors.New("unknown article type")

var (
	authorFirstNames = []string{"Alex", "Jordan", "Casey", "Morgan", "Riley", "Taylor", "Sam", "Drew"}
	authorLastNames  = []string{"Chen", "Rodriguez", "Kim", "Patel", "Johnson", "Martinez", "Lee", "Santos"}
)

// ArticleTitle builds the title for t from the visitor's goals and interests.
func ArticleTitle(t ArticleType, goals string, interests []string) (string, error) {
	interest := domain.UserProfile{Interests: interests}.FirstInterest(defaultInterest)
	switch t {
	case ArticleFansStruggle:
		return fmt.Sprintf("Why %s Fans Struggle With %s", interest, goals), nil
	case ArticleAvoiding:
		return fmt.Sprintf("10 Signs You're Avoiding %s (But Don't Know It Yet)", goals), nil
	case ArticleReadThis:
		return fmt.Sprintf("If You're a Fan of %s and Can't %s, Read This", interest, goals), nil
	default:
		return "", fmt.Errorf("%w: %d", ErrUnknownArticleType, int(t))
	}
}

// GenerateArticlePreview builds a preview for article t. Relay failures
// never surface: the hook falls back to FallbackHook.
func (m *Manager) GenerateArticlePreview(ctx context.Context, t ArticleType, goals string, interests []string) (domain.Preview, error) {
	title, err := ArticleTitle(t, goals, interests)
	if err != nil {
		return domain.Preview{}, err
	}

	prompt := fmt.Sprintf(`Generate a 1-sentence compelling hook for an article titled: "%s"

The hook should be slightly unnerving and make the reader feel personally called out. Keep it under 25 words.`, title)

	hook, ok := m.generate(ctx, "article_preview", prompt, "")
	if !ok {
		hook = FallbackHook
	}

	return domain.Preview{
		Title:  title,
		Hook:   hook,
		Author: m.AuthorName(),
		URL:    fmt.Sprintf("article-%d.html", int(t)),
	}, nil
}

// GenerateListicleContent asks the relay for ten listicle items tailored to
// goals and interests. ok is false when generation is unavailable and the
// caller should render its own fallback.
func (m *Manager) GenerateListicleContent(ctx context.Context, goals string, interests []string) (string, bool) {
	prompt := fmt.Sprintf(`Generate 10 listicle items about procrastination and %s.

Items 1-3: Normal, relatable advice
Item 4: Getting specific to someone interested in %s
Item 6: Uncomfortably specific about Filipino college students
Items 8-9: Back to normal
Item 10: Reference sitting in Arete building at Ateneo de Manila University

Format each as: Title | Description (max 3 sentences, slightly unnerving tone)`,
		goals, strings.Join(interests, ", "))

	return m.generate(ctx, "listicle", prompt, "")
}

// GenerateProductListings asks the relay for ten increasingly invasive
// product listings built from the profile and current session. ok is false
// when generation is unavailable.
func (m *Manager) GenerateProductListings(ctx context.Context, goals string, interests, favourites []string) (string, bool) {
	session := m.GetOrCreateSession(ctx)
	path := m.Path(ctx)

	prompt := fmt.Sprintf(`Generate 10 product listings that get progressively more invasive:

1-2: Related to %s, %s
3: Mentions "Filipino college student"
4: Uses specific user statistics (%d pages visited, %d seconds on site), addresses in first person
5: Combines "%s" with interests
6: Quotes user goal verbatim, mentions Metro Manila
7: Product bundle of user's exact interests and favourites (%s)
8: Product name is literally their goal
9: "Premium Data Package" selling user profiles
10: "Your Complete Profile" with session data (session %s)

Each listing needs: Title | Description | Review | Price`,
		interestAt(interests, 0), interestAt(interests, 1),
		len(path), path.TotalSeconds(),
		goals,
		strings.Join(append(append([]string{}, interests...), favourites...), ", "),
		session.ID)

	return m.generate(ctx, "product_listings", prompt, "")
}

// AuthorName picks a pseudo-random byline from the fixed name pools.
func (m *Manager) AuthorName() string {
	first := authorFirstNames[m.intN(len(authorFirstNames))]
	last := authorLastNames[m.intN(len(authorLastNames))]
	return first + " " + last
}

// generate calls the relay and reports false on any failure or empty text.
func (m *Manager) generate(ctx context.Context, kind, prompt, systemPrompt string) (string, bool) {
	if m.gen == nil {
		return "", false
	}
	text, err := m.gen.Generate(ctx, prompt, systemPrompt)
	if err != nil {
		m.logger.Warn("Generation unavailable, using fallback", "kind", kind, "error", err)
		return "", false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		m.logger.Warn("Generation returned empty text, using fallback", "kind", kind)
		return "", false
	}
	return text, true
}

func interestAt(interests []string, i int) string {
	if i < len(interests) && interests[i] != "" {
		return interests[i]
	}
	return defaultInterest
}
