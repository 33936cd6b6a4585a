// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/elhaouchomar/01blog/lib/httpx"
)

// UploadFile is one file destined for the media upload endpoint.
type UploadFile struct {
	// Name is the filename reported to the server.
	Name string

	// Content is read fully when the upload is built.
	Content io.Reader
}

// UploadFiles sends media files as a multipart request and returns the
// stored URLs in order.
func (client *Client) UploadFiles(ctx context.Context, files []UploadFile) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)
	for _, file := range files {
		part, err := writer.CreateFormFile("files", file.Name)
		if err != nil {
			return nil, fmt.Errorf("api: building upload form: %w", err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, fmt.Errorf("api: reading upload %q: %w", file.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("api: finishing upload form: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.base.String()+apiPrefix+"/posts/upload", &buffer)
	if err != nil {
		return nil, fmt.Errorf("api: creating upload request: %w", err)
	}
	request.Header.Set("Content-Type", writer.FormDataContentType())
	request.Header.Set("Accept", "application/json")
	client.attachCSRF(request)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("api: POST /posts/upload: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		body, _ := httpx.ReadBody(response.Body)
		return nil, parseAPIError(response.StatusCode, body)
	}

	var urls []string
	if err := httpx.DecodeBody(response.Body, &urls); err != nil {
		return nil, fmt.Errorf("api: decoding upload response: %w", err)
	}
	return urls, nil
}
