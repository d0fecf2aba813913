package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// TestDiscussionScenario walks one thread through its full life: post,
// comment, reply, depth-capped reply attempt, like, and cascade delete.
func TestDiscussionScenario(t *testing.T) {
	r, _ := newTestRouter(t)
	u1 := tokenFor(t, 101)
	u2 := tokenFor(t, 102)

	post := createTestPost(t, r, u1, "free-talk", "first vet visit", "any tips for a nervous puppy?")

	c1 := createTestComment(t, r, u2, post.ID, "bring treats and go early", nil)
	c2 := createTestComment(t, r, u1, post.ID, "early as in before opening?", &c1.ID)

	// Replying to a reply breaks the depth cap.
	w := doRequest(r, http.MethodPost, postPath(post.ID)+"/comments", u2,
		gin.H{"content": "yes, fewer dogs around", "parent_id": c2.ID})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var toggle toggleResponse
	decodeData(t, doRequest(r, http.MethodPost, commentPath(c1.ID)+"/like", u1, nil), &toggle)
	require.True(t, toggle.Liked)
	require.EqualValues(t, 1, toggle.LikeCount)

	// Only the author may delete the post.
	w = doRequest(r, http.MethodDelete, postPath(post.ID), u2, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	decodeData(t, doRequest(r, http.MethodDelete, postPath(post.ID), u1, nil), &struct{}{})

	w = doRequest(r, http.MethodGet, postPath(post.ID)+"/comments", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestStats(t *testing.T) {
	r, _ := newTestRouter(t)
	alice := tokenFor(t, 1)

	post := createTestPost(t, r, alice, "free-talk", "stats post", "body")
	createTestComment(t, r, alice, post.ID, "a comment", nil)
	decodeData(t, doRequest(r, http.MethodPost, postPath(post.ID)+"/like", alice, nil), &struct{}{})
	// One content view, recorded by the page-view middleware.
	doRequest(r, http.MethodGet, postPath(post.ID), "", nil)

	var resp struct {
		Posts      int64 `json:"posts"`
		Comments   int64 `json:"comments"`
		Likes      int64 `json:"likes"`
		TodayViews int64 `json:"today_views"`
	}
	decodeData(t, doRequest(r, http.MethodGet, "/api/v1/stats", "", nil), &resp)
	require.EqualValues(t, 1, resp.Posts)
	require.EqualValues(t, 1, resp.Comments)
	require.EqualValues(t, 1, resp.Likes)
	require.EqualValues(t, 1, resp.TodayViews)
}

func TestBoardCatalog(t *testing.T) {
	r, _ := newTestRouter(t)

	var resp struct {
		Items []struct {
			Key         string `json:"key"`
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"items"`
	}
	decodeData(t, doRequest(r, http.MethodGet, "/api/v1/boards", "", nil), &resp)
	require.NotEmpty(t, resp.Items)
	require.Equal(t, "free-talk", resp.Items[0].Key)
	for _, b := range resp.Items {
		require.NotEmpty(t, b.Name)
	}
}
