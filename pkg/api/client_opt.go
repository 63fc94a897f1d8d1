package api

import (
	"net/http"
)

type apiKeyOpt struct {
	header string
	key    string
}

// APIKey authenticates a request with a vendor-specific header.
func APIKey(header, key string) *apiKeyOpt {
	return &apiKeyOpt{header: header, key: key}
}

func (opt *apiKeyOpt) Do(client defaultClient, req *http.Request) {
	req.Header.Set(opt.header, opt.key)
}
