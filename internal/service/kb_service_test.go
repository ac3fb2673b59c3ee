package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-kit/helpdesk-service/internal/domain"
)

func newKBFixture(t *testing.T) (*KBService, *domain.User, *domain.User) {
	t.Helper()
	users := newFakeUserRepo()
	agent := users.add("agent1", domain.RoleAgent)
	student := users.add("student1", domain.RoleStudent)
	return NewKBService(newFakeKBRepo()), agent, student
}

func TestKBSearchMatchesTitleOrContent(t *testing.T) {
	svc, agent, _ := newKBFixture(t)
	ctx := context.Background()

	seed := []KBArticleInput{
		{Title: "Reset Wi-Fi Password", Content: "Visit the portal and request a reset.", Category: "IT Support"},
		{Title: "Library Hours", Content: "Open 8am to 10pm on weekdays.", Category: "Facilities"},
		{Title: "Exam Schedule", Content: "Check the Wi-Fi enabled kiosks in block C.", Category: "Academics"},
	}
	for _, input := range seed {
		_, err := svc.Create(ctx, agent, input)
		require.NoError(t, err)
	}

	// "Wi-Fi" hits one title and one content body, newest first.
	results, err := svc.Search(ctx, "Wi-Fi")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Exam Schedule", results[0].Title)
	assert.Equal(t, "Reset Wi-Fi Password", results[1].Title)

	// Empty query lists everything, newest first.
	results, err = svc.Search(ctx, "   ")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "Exam Schedule", results[0].Title)

	results, err = svc.Search(ctx, "no such phrase")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestKBCreateDefaultsCategory(t *testing.T) {
	svc, agent, _ := newKBFixture(t)

	article, err := svc.Create(context.Background(), agent, KBArticleInput{
		Title:   "Printing Credits",
		Content: "Top up at the service desk.",
	})
	require.NoError(t, err)
	assert.Equal(t, "General", article.Category)
}

func TestKBCreateValidation(t *testing.T) {
	svc, agent, student := newKBFixture(t)

	_, err := svc.Create(context.Background(), agent, KBArticleInput{Title: "  "})
	assertDomainCode(t, err, "VALIDATION_FAILED")

	_, err = svc.Create(context.Background(), student, KBArticleInput{Title: "ok"})
	assertDomainCode(t, err, "FORBIDDEN")
}

func TestKBUpdate(t *testing.T) {
	svc, agent, student := newKBFixture(t)
	ctx := context.Background()

	article, err := svc.Create(ctx, agent, KBArticleInput{Title: "Draft", Content: "v1", Category: "IT Support"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, agent, article.ID, KBArticleInput{Title: "Final", Content: "v2"})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "v2", updated.Content)
	assert.Equal(t, "General", updated.Category)

	_, err = svc.Update(ctx, agent, 9999, KBArticleInput{Title: "x"})
	assertDomainCode(t, err, "NOT_FOUND")

	_, err = svc.Update(ctx, student, article.ID, KBArticleInput{Title: "x"})
	assertDomainCode(t, err, "FORBIDDEN")
}

func TestKBGetMissing(t *testing.T) {
	svc, _, _ := newKBFixture(t)
	_, err := svc.Get(context.Background(), 42)
	assertDomainCode(t, err, "NOT_FOUND")
}
