package controllers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/petmily/petboard/models"
)

func TestCreateAndGetPost(t *testing.T) {
	r, _ := newTestRouter(t)
	token := tokenFor(t, 1)

	post := createTestPost(t, r, token, "free-talk", "Low-Allergy Salmon Food", "Our corgi finally stopped scratching.")
	require.NotZero(t, post.ID)
	require.Equal(t, "free-talk", post.BoardKey)
	require.Equal(t, uint(1), post.AuthorID)
	require.EqualValues(t, 0, post.ViewCount)
	require.EqualValues(t, 0, post.LikeCount)

	// Every detail fetch increments the view counter, the author included.
	var resp struct {
		Post  models.Post `json:"post"`
		Liked bool        `json:"liked"`
	}
	decodeData(t, doRequest(r, http.MethodGet, postPath(post.ID), token, nil), &resp)
	require.Equal(t, post.Title, resp.Post.Title)
	require.Equal(t, post.Content, resp.Post.Content)
	require.EqualValues(t, 1, resp.Post.ViewCount)
	require.False(t, resp.Liked)

	decodeData(t, doRequest(r, http.MethodGet, postPath(post.ID), "", nil), &resp)
	require.EqualValues(t, 2, resp.Post.ViewCount)
}

func TestGetPostNotFound(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doRequest(r, http.MethodGet, "/api/v1/posts/9999", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatePostValidation(t *testing.T) {
	r, _ := newTestRouter(t)
	token := tokenFor(t, 1)

	cases := []struct {
		name   string
		board  string
		token  string
		body   gin.H
		status int
	}{
		{"unknown board", "no-such-board", token, gin.H{"title": "t", "content": "c"}, http.StatusNotFound},
		{"whitespace title", "free-talk", token, gin.H{"title": "   ", "content": "c"}, http.StatusBadRequest},
		{"missing title", "free-talk", token, gin.H{"content": "c"}, http.StatusBadRequest},
		{"title too long", "free-talk", token, gin.H{"title": strings.Repeat("x", 201), "content": "c"}, http.StatusBadRequest},
		{"empty content", "free-talk", token, gin.H{"title": "t", "content": ""}, http.StatusBadRequest},
		{"anonymous", "free-talk", "", gin.H{"title": "t", "content": "c"}, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/api/v1/boards/"+tc.board+"/posts", tc.token, tc.body)
			require.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
}

type listResponse struct {
	Items      []models.Post `json:"items"`
	Pagination struct {
		Page       int   `json:"page"`
		PageSize   int   `json:"page_size"`
		Total      int64 `json:"total"`
		TotalPages int   `json:"total_pages"`
	} `json:"pagination"`
}

func TestListPostsPaginationDeterminism(t *testing.T) {
	r, _ := newTestRouter(t)
	token := tokenFor(t, 1)

	const n = 7
	for i := 0; i < n; i++ {
		createTestPost(t, r, token, "qna", fmt.Sprintf("question %d", i), "body")
	}
	// Posts on other boards never leak into a board listing.
	createTestPost(t, r, token, "tips", "unrelated", "body")

	seen := map[uint]bool{}
	var all []models.Post
	for page := 1; ; page++ {
		var resp listResponse
		decodeData(t, doRequest(r, http.MethodGet,
			fmt.Sprintf("/api/v1/boards/qna/posts?page=%d&page_size=3", page), "", nil), &resp)
		require.EqualValues(t, n, resp.Pagination.Total)
		if len(resp.Items) == 0 {
			break
		}
		for _, p := range resp.Items {
			require.False(t, seen[p.ID], "post %d returned twice", p.ID)
			seen[p.ID] = true
			require.Equal(t, "qna", p.BoardKey)
		}
		all = append(all, resp.Items...)
	}
	require.Len(t, all, n)

	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		require.False(t, cur.CreatedAt.After(prev.CreatedAt), "ordering must be created_at descending")
		if cur.CreatedAt.Equal(prev.CreatedAt) {
			require.Less(t, cur.ID, prev.ID, "ties break by id descending")
		}
	}
}

func TestListPostsClamping(t *testing.T) {
	r, _ := newTestRouter(t)
	token := tokenFor(t, 1)
	createTestPost(t, r, token, "qna", "only one", "body")

	// page < 1 clamps to 1, page_size clamps to the configured maximum
	var resp listResponse
	decodeData(t, doRequest(r, http.MethodGet, "/api/v1/boards/qna/posts?page=0&page_size=1000", "", nil), &resp)
	require.Equal(t, 1, resp.Pagination.Page)
	require.Equal(t, 100, resp.Pagination.PageSize)
	require.Len(t, resp.Items, 1)

	// Out-of-range pages are an empty page, not an error
	decodeData(t, doRequest(r, http.MethodGet, "/api/v1/boards/qna/posts?page=50&page_size=10", "", nil), &resp)
	require.Empty(t, resp.Items)
	require.EqualValues(t, 1, resp.Pagination.Total)
}

func TestListPostsSearch(t *testing.T) {
	r, _ := newTestRouter(t)
	token := tokenFor(t, 1)

	salmonTitle := createTestPost(t, r, token, "free-talk", "Low-Allergy Salmon Food", "worked wonders")
	salmonBody := createTestPost(t, r, token, "free-talk", "Food review", "tried the salmon kibble this week")
	createTestPost(t, r, token, "free-talk", "Chicken treats", "no fish here")
	// Same term on another board must not match a free-talk search.
	createTestPost(t, r, token, "tips", "Salmon oil dosage", "for shiny coats")

	var resp listResponse
	decodeData(t, doRequest(r, http.MethodGet, "/api/v1/boards/free-talk/posts?search=SALMON", "", nil), &resp)
	require.EqualValues(t, 2, resp.Pagination.Total)
	ids := []uint{resp.Items[0].ID, resp.Items[1].ID}
	require.ElementsMatch(t, []uint{salmonTitle.ID, salmonBody.ID}, ids)

	// No matches is an empty listing, not an error.
	decodeData(t, doRequest(r, http.MethodGet, "/api/v1/boards/free-talk/posts?search=hamster", "", nil), &resp)
	require.Empty(t, resp.Items)
	require.EqualValues(t, 0, resp.Pagination.Total)
}

func TestUpdatePostPatchSemantics(t *testing.T) {
	r, _ := newTestRouter(t)
	owner := tokenFor(t, 1)
	stranger := tokenFor(t, 2)

	post := createTestPost(t, r, owner, "free-talk", "original title", "original content")
	// Bump the view counter so we can verify update leaves it alone.
	doRequest(r, http.MethodGet, postPath(post.ID), "", nil)

	t.Run("forbidden for non-owner", func(t *testing.T) {
		w := doRequest(r, http.MethodPut, postPath(post.ID), stranger, gin.H{"title": "hijacked"})
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("forbidden wins over invalid payload", func(t *testing.T) {
		// Ownership is checked before the body; a non-author never learns
		// whether their payload would have validated.
		for _, body := range []gin.H{
			{"title": "   "},
			{"content": ""},
			{"title": strings.Repeat("x", 201)},
		} {
			w := doRequest(r, http.MethodPut, postPath(post.ID), stranger, body)
			require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
		}
	})

	t.Run("unauthorized without identity", func(t *testing.T) {
		w := doRequest(r, http.MethodPut, postPath(post.ID), "", gin.H{"title": "anon"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing post", func(t *testing.T) {
		w := doRequest(r, http.MethodPut, "/api/v1/posts/424242", owner, gin.H{"title": "x"})
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("patch title only", func(t *testing.T) {
		var resp struct {
			Post models.Post `json:"post"`
		}
		decodeData(t, doRequest(r, http.MethodPut, postPath(post.ID), owner, gin.H{"title": "new title"}), &resp)
		require.Equal(t, "new title", resp.Post.Title)
		require.Equal(t, "original content", resp.Post.Content)
		require.EqualValues(t, 1, resp.Post.ViewCount)
		require.True(t, resp.Post.CreatedAt.Equal(post.CreatedAt), "createdAt must not change on update")
		require.False(t, resp.Post.UpdatedAt.Before(post.UpdatedAt))
	})

	t.Run("empty patch title rejected", func(t *testing.T) {
		w := doRequest(r, http.MethodPut, postPath(post.ID), owner, gin.H{"title": "  "})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeletePostCascade(t *testing.T) {
	r, db := newTestRouter(t)
	author := tokenFor(t, 1)
	visitor := tokenFor(t, 2)

	post := createTestPost(t, r, author, "free-talk", "to be deleted", "body")
	comment := createTestComment(t, r, visitor, post.ID, "nice post", nil)

	decodeData(t, doRequest(r, http.MethodPost, postPath(post.ID)+"/like", visitor, nil), &struct{}{})
	decodeData(t, doRequest(r, http.MethodPost, commentPath(comment.ID)+"/like", author, nil), &struct{}{})

	w := doRequest(r, http.MethodDelete, postPath(post.ID), visitor, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	decodeData(t, doRequest(r, http.MethodDelete, postPath(post.ID), author, nil), &struct{}{})

	require.Equal(t, http.StatusNotFound, doRequest(r, http.MethodGet, postPath(post.ID), "", nil).Code)
	require.Equal(t, http.StatusNotFound, doRequest(r, http.MethodGet, postPath(post.ID)+"/comments", "", nil).Code)

	var comments, likes int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	require.NoError(t, db.Model(&models.Like{}).Count(&likes).Error)
	require.Zero(t, comments, "comments must be cascade-deleted")
	require.Zero(t, likes, "like entries on the post and its comments must be cascade-deleted")
}
