package notification

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sang765/tmr-novel-tracking/internal/domain"
)

type memDeliveries struct {
	rows map[string]map[float64]string
	err  error
}

func newMemDeliveries() *memDeliveries {
	return &memDeliveries{rows: map[string]map[float64]string{}}
}

func (m *memDeliveries) Delivered(ctx context.Context, novelID string) (map[float64]string, error) {
	if m.err != nil {
		return nil, m.err
	}

	return m.rows[novelID], nil
}

func (m *memDeliveries) Record(ctx context.Context, d domain.Delivery) error {
	if m.rows[d.NovelID] == nil {
		m.rows[d.NovelID] = map[float64]string{}
	}

	m.rows[d.NovelID][d.ChapterNumber] = d.MessageID
	return nil
}

type memMessages struct {
	id string
}

func (m *memMessages) GetStatusMessageID(ctx context.Context, path string) (string, error) {
	return m.id, nil
}

func (m *memMessages) StoreStatusMessageID(ctx context.Context, path string, id string) error {
	m.id = id
	return nil
}

func newTestNotifier(webhookURL string, deliveries domain.DeliveryRepo, messages domain.MessageStore) *Service {
	var discord *DiscordClient
	if webhookURL != "" {
		discord = NewDiscordClient(zerolog.Nop(), webhookURL)
	}

	return &Service{
		log:        zerolog.Nop(),
		formatter:  NewFormatter(zerolog.Nop(), "The Mavericks", ""),
		discord:    discord,
		deliveries: deliveries,
		messages:   messages,
		msgPath:    "status-message-id.txt",
		pacing:     time.Millisecond,
	}
}

func release(novelID string, number float64) domain.Release {
	return domain.Release{
		Chapter: domain.Chapter{
			Number:    number,
			Title:     "Mở màn",
			URL:       fmt.Sprintf("https://ln.hako.vn/truyen/%s/c%v", novelID, number),
			Timestamp: "2024-06-01T12:00:00Z",
		},
		NovelID:    novelID,
		NovelTitle: "Tensei Oujo to Tensai Reijou",
		NovelURL:   "https://ln.hako.vn/truyen/" + novelID,
	}
}

func TestAnnounceReleases(t *testing.T) {
	ctx := context.Background()

	t.Run("sends one notification per release and records deliveries", func(t *testing.T) {
		var posts int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&posts, 1)
			fmt.Fprintf(w, `{"id": "m%d"}`, atomic.LoadInt32(&posts))
		}))
		defer srv.Close()

		deliveries := newMemDeliveries()
		s := newTestNotifier(srv.URL, deliveries, &memMessages{})

		s.AnnounceReleases(ctx, []domain.Release{release("10425", 45), release("10425", 44.5)})

		require.EqualValues(t, 2, atomic.LoadInt32(&posts))
		require.Equal(t, map[float64]string{45: "m1", 44.5: "m2"}, deliveries.rows["10425"])
	})

	t.Run("skips chapters already in the delivery log", func(t *testing.T) {
		var posts int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&posts, 1)
			fmt.Fprint(w, `{"id": "m1"}`)
		}))
		defer srv.Close()

		deliveries := newMemDeliveries()
		deliveries.rows["10425"] = map[float64]string{45: "m0"}
		s := newTestNotifier(srv.URL, deliveries, &memMessages{})

		s.AnnounceReleases(ctx, []domain.Release{release("10425", 45), release("10425", 46)})

		require.EqualValues(t, 1, atomic.LoadInt32(&posts))
	})

	t.Run("a failed send does not stop the remaining releases", func(t *testing.T) {
		var posts int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&posts, 1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			fmt.Fprint(w, `{"id": "m2"}`)
		}))
		defer srv.Close()

		deliveries := newMemDeliveries()
		s := newTestNotifier(srv.URL, deliveries, &memMessages{})

		s.AnnounceReleases(ctx, []domain.Release{release("10425", 45), release("10425", 46)})

		require.EqualValues(t, 2, atomic.LoadInt32(&posts))
		require.Equal(t, map[float64]string{46: "m2"}, deliveries.rows["10425"])
	})

	t.Run("missing delivery log still sends", func(t *testing.T) {
		var posts int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&posts, 1)
			fmt.Fprint(w, `{"id": "m1"}`)
		}))
		defer srv.Close()

		s := newTestNotifier(srv.URL, nil, &memMessages{})

		s.AnnounceReleases(ctx, []domain.Release{release("10425", 45)})
		require.EqualValues(t, 1, atomic.LoadInt32(&posts))
	})

	t.Run("no webhook configured skips everything", func(t *testing.T) {
		s := newTestNotifier("", newMemDeliveries(), &memMessages{})
		s.AnnounceReleases(ctx, []domain.Release{release("10425", 45)})
	})
}

func TestPublishStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	statuses := []domain.NovelStatus{
		{Title: "Tensei Oujo", URL: "https://docln.sbs/truyen/10425", Status: "Đang tiến hành", LastUpdate: "<t:1716192600:R>"},
	}

	t.Run("first publish creates a message and stores its id", func(t *testing.T) {
		var gotMethod string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			fmt.Fprint(w, `{"id": "900100"}`)
		}))
		defer srv.Close()

		messages := &memMessages{}
		s := newTestNotifier(srv.URL, nil, messages)

		require.NoError(t, s.PublishStatus(ctx, statuses, now))
		require.Equal(t, http.MethodPost, gotMethod)
		require.Equal(t, "900100", messages.id)
	})

	t.Run("known message id is edited in place", func(t *testing.T) {
		var (
			gotMethod string
			gotPath   string
		)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			fmt.Fprint(w, `{"id": "900100"}`)
		}))
		defer srv.Close()

		messages := &memMessages{id: "900100"}
		s := newTestNotifier(srv.URL, nil, messages)

		require.NoError(t, s.PublishStatus(ctx, statuses, now))
		require.Equal(t, http.MethodPatch, gotMethod)
		require.Equal(t, "/messages/900100", gotPath)
	})

	t.Run("deleted message falls back to a fresh one", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPatch {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fmt.Fprint(w, `{"id": "900200"}`)
		}))
		defer srv.Close()

		messages := &memMessages{id: "900100"}
		s := newTestNotifier(srv.URL, nil, messages)

		require.NoError(t, s.PublishStatus(ctx, statuses, now))
		require.Equal(t, "900200", messages.id)
	})
}
