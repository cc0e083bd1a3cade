package feeds_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"newsbrief/internal/feeds"
	"newsbrief/internal/models"
)

type stubClient struct {
	calls    int
	lastFeed string
	lastQ    models.FeedQuery
	resp     models.FeedResponse
}

func (s *stubClient) Fetch(_ context.Context, feedID string, q models.FeedQuery) models.FeedResponse {
	s.calls++
	s.lastFeed = feedID
	s.lastQ = q
	return s.resp
}

func TestDegradeShortensMultiWordKeyword(t *testing.T) {
	stub := &stubClient{resp: models.FeedResponse{Status: models.StatusOk, Items: []models.RawItem{{Title: "a"}}}}
	c := feeds.NewController(stub, discardLogger())

	query := models.FeedQuery{Keyword: "musk interview", RequestedCount: 50}
	first := models.FeedResponse{Status: models.StatusNoMatch}

	got, served := c.Degrade(context.Background(), feeds.FeedGeneral, query, first)
	require.Equal(t, models.StatusOk, got.Status)
	require.Equal(t, 1, stub.calls)
	require.Equal(t, feeds.FeedGeneral, stub.lastFeed)
	require.Equal(t, feeds.FeedGeneral, served)
	require.Equal(t, "musk", stub.lastQ.Keyword)
}

func TestDegradeSwitchesToHotlistForSingleWord(t *testing.T) {
	stub := &stubClient{resp: models.FeedResponse{Status: models.StatusOk}}
	c := feeds.NewController(stub, discardLogger())

	got, served := c.Degrade(context.Background(), feeds.FeedInternet,
		models.FeedQuery{Keyword: "musk", RequestedCount: 50},
		models.FeedResponse{Status: models.StatusNoMatch})

	require.Equal(t, models.StatusOk, got.Status)
	require.Equal(t, feeds.FeedHotlist, stub.lastFeed)
	require.Equal(t, feeds.FeedHotlist, served)
	require.Empty(t, stub.lastQ.Keyword)
}

func TestDegradeDoesNotFireOnOk(t *testing.T) {
	stub := &stubClient{}
	c := feeds.NewController(stub, discardLogger())

	first := models.FeedResponse{Status: models.StatusOk, Items: []models.RawItem{{Title: "a"}}}
	got, served := c.Degrade(context.Background(), feeds.FeedGeneral, models.FeedQuery{Keyword: "musk"}, first)

	require.Equal(t, first, got)
	require.Equal(t, feeds.FeedGeneral, served)
	require.Zero(t, stub.calls)
}

func TestDegradeDoesNotFireWithoutKeyword(t *testing.T) {
	stub := &stubClient{}
	c := feeds.NewController(stub, discardLogger())

	first := models.FeedResponse{Status: models.StatusNoMatch}
	got, served := c.Degrade(context.Background(), feeds.FeedHotlist, models.FeedQuery{}, first)

	require.Equal(t, first, got)
	require.Equal(t, feeds.FeedHotlist, served)
	require.Zero(t, stub.calls)
}

func TestDegradeSecondNoMatchIsTerminal(t *testing.T) {
	stub := &stubClient{resp: models.FeedResponse{Status: models.StatusNoMatch}}
	c := feeds.NewController(stub, discardLogger())

	got, _ := c.Degrade(context.Background(), feeds.FeedGeneral,
		models.FeedQuery{Keyword: "musk interview"},
		models.FeedResponse{Status: models.StatusNoMatch})

	// one retry, no loop: the second NoMatch is simply returned
	require.Equal(t, models.StatusNoMatch, got.Status)
	require.Equal(t, 1, stub.calls)
}
