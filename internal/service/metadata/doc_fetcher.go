package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxDocumentSize 链下元数据文档的大小上限，防止恶意 URI 撑爆内存
const maxDocumentSize = 1 << 20 // 1 MiB

// HTTPDocFetcher 用普通 HTTP GET 拉取 JSON 元数据文档
type HTTPDocFetcher struct {
	client *http.Client
}

func NewHTTPDocFetcher(timeout time.Duration) *HTTPDocFetcher {
	return &HTTPDocFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

func (f *HTTPDocFetcher) FetchJSON(ctx context.Context, url string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("元数据文档返回 HTTP %d", resp.StatusCode)
	}

	return json.NewDecoder(io.LimitReader(resp.Body, maxDocumentSize)).Decode(target)
}
