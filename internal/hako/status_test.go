package hako

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sang765/tmr-novel-tracking/internal/domain"
)

const statusPageOne = `<!DOCTYPE html>
<html><body>
<div class="showcase-item">
  <h5 class="series-name"><a href="/truyen/10425-tensei-oujo">Tensei Oujo to Tensai Reijou</a></h5>
  <span class="status-value">Đang tiến hành</span>
  <span class="status-value"><time datetime="2024-05-20T08:30:00">3 ngày trước</time></span>
</div>
</body></html>`

const statusPageTwo = `<!DOCTYPE html>
<html><body>
<div class="showcase-item">
  <h5 class="series-name"><a href="/truyen/9981-silent-witch">Silent Witch</a></h5>
  <span class="status-value">Tạm ngưng</span>
  <span class="status-value"><time title="20/03/2024">2 tháng trước</time></span>
</div>
<div class="showcase-item">
  <h5 class="series-name"><a href="/truyen/7743-yuusha-shoukan">Yuusha Shoukan</a></h5>
  <span class="status-value"></span>
  <span class="status-value">1 năm trước</span>
</div>
</body></html>`

func TestGetStatuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, statusPageOne)
		case "2":
			fmt.Fprint(w, statusPageTwo)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	cfg := &domain.Config{
		StatusURL:   srv.URL + "/nhom-dich/3474-the-mavericks",
		StatusPages: 2,
		UserAgent:   "test-agent",
	}

	s := NewStatusService(zerolog.Nop(), cfg)

	statuses, err := s.GetStatuses(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 3)

	require.Equal(t, "Tensei Oujo to Tensai Reijou", statuses[0].Title)
	require.Equal(t, "Đang tiến hành", statuses[0].Status)
	require.Equal(t, srv.URL+"/truyen/10425-tensei-oujo", statuses[0].URL)

	wantStamp := fmt.Sprintf("<t:%d:R>", time.Date(2024, 5, 20, 8, 30, 0, 0, time.UTC).Unix())
	require.Equal(t, wantStamp, statuses[0].LastUpdate)

	require.Equal(t, "Silent Witch", statuses[1].Title)
	require.Equal(t, "Tạm ngưng", statuses[1].Status)
	require.Equal(t, "20/03/2024", statuses[1].LastUpdate)

	require.Equal(t, "Yuusha Shoukan", statuses[2].Title)
	require.Equal(t, "Unknown", statuses[2].Status)
	require.Equal(t, "1 năm trước", statuses[2].LastUpdate)
}
