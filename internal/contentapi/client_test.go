package contentapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", 5*time.Second)
}

func TestList_AcceptsEnvelopeAndBareArray(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"envelope", `{"data":[{"id":1,"title":"A"},{"id":2,"title":"B"}]}`, 2},
		{"bare array", `[{"id":"7","title":"A"}]`, 1},
		{"envelope with object", `{"data":{"id":1}}`, 0},
		{"empty body", ``, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/awards", r.URL.Path)
				assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
				io.WriteString(w, tt.body)
			})

			awards, err := client.Awards().List(context.Background())
			require.NoError(t, err)
			assert.NotNil(t, awards)
			assert.Len(t, awards, tt.want)
		})
	}
}

func TestList_ErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"message":"database down"}`)
	})

	items, err := client.Notices().List(context.Background())
	require.Error(t, err)
	assert.Empty(t, items)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "database down", apiErr.Message)
}

func TestGet_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/careers/12", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"no such career"}`)
	})

	_, err := client.Careers().Get(context.Background(), "12")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreate_ReturnsSubmittedRecordOnBareAck(t *testing.T) {
	var got Notice
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, `{"message":"created"}`)
	})

	in := Notice{Title: "Closed Friday", Category: "general", Image: "https://cdn.example/x.png"}
	out, err := client.Notices().Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, in, got)
}

func TestUpdate_UsesItemPath(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/teams/3", r.URL.Path)
		io.WriteString(w, `{"data":{"id":3,"name":"Ama","position":"CEO"}}`)
	})

	out, err := client.Teams().Update(context.Background(), "3", TeamMember{Name: "Ama", Position: "CEO"})
	require.NoError(t, err)
	assert.Equal(t, ID("3"), out.ID)
}

func TestUpdate_MissingID(t *testing.T) {
	client := NewClient("http://unused.invalid", "", 0)
	_, err := client.Awards().Update(context.Background(), "", Award{})
	assert.Error(t, err)
}

func TestSaveOrder_SendsBatch(t *testing.T) {
	var body struct {
		Items []map[string]any `json:"items"`
	}
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/carousel/display-order", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.Carousel().SaveOrder(context.Background(), []OrderEntry{
		{ID: "2", DisplayOrder: 1},
		{ID: "1", DisplayOrder: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	require.Len(t, body.Items, 2)
	// numeric ids go back out as numbers
	assert.Equal(t, float64(2), body.Items[0]["id"])
	assert.Equal(t, float64(1), body.Items[0]["display_order"])
}

func TestSetFeatured(t *testing.T) {
	var body map[string]int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/products/9/featured", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		io.WriteString(w, `{"success":true}`)
	})

	require.NoError(t, client.Products().SetFeatured(context.Background(), "9", true))
	assert.Equal(t, 1, body["featured"])
}

func TestBranchList_FlattensDirectory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":{"totalBranches":3,"regions":{
			"Greater Accra":[{"id":2,"location":"Tema","area":"Harbour","gps":{"lat":"5.67","lng":"-0.01"}},{"id":1,"location":"Osu","area":"Oxford St"}],
			"Ashanti":[{"id":3,"location":"Kumasi","area":"Adum","gps":{"lat":6.69,"lng":-1.62}}]}}}`)
	})

	branches, err := client.Branches().List(context.Background())
	require.NoError(t, err)
	require.Len(t, branches, 3)
	assert.Equal(t, "Ashanti", branches[0].RegionName)
	assert.Equal(t, "Osu", branches[1].Location)
	assert.Equal(t, "Tema", branches[2].Location)
	require.NotNil(t, branches[2].GPS)
	assert.InDelta(t, 5.67, float64(branches[2].GPS.Lat), 1e-9)
}

func TestBranchCreate_SendsFlatCoordinates(t *testing.T) {
	var body map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
	})

	_, err := client.Branches().Create(context.Background(), Branch{
		RegionName: "Volta",
		Location:   "Ho",
		Area:       "Central",
		GPS:        &GPS{Lat: 6.6, Lng: 0.47},
	})
	require.NoError(t, err)
	assert.Equal(t, "Volta", body["regionName"])
	assert.Equal(t, "6.6", body["lat"])
	assert.Equal(t, "0.47", body["lng"])
}

func TestGalleryImages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/gallery/4/images":
			io.WriteString(w, `[{"id":10,"gallery_id":4,"image_url":"https://cdn.example/a.jpg"}]`)
		case r.Method == http.MethodDelete && r.URL.Path == "/gallery-images/10":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}
	})

	images, err := client.Gallery().Images(context.Background(), "4")
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, ID("4"), images[0].GalleryID)

	require.NoError(t, client.Gallery().DeleteImage(context.Background(), "10"))
}
