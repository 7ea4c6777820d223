package utils

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"imovelhub/config"
)

var storageClient = &http.Client{Timeout: 30 * time.Second}

// DecodeSignature accepts either a data URL ("data:image/png;base64,...")
// or a bare base64 string and returns the raw PNG bytes.
func DecodeSignature(signature string) ([]byte, error) {
	if signature == "" {
		return nil, errors.New("signature is empty")
	}
	if idx := strings.Index(signature, "base64,"); idx >= 0 {
		signature = signature[idx+len("base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return nil, fmt.Errorf("invalid signature encoding: %w", err)
	}
	return data, nil
}

// UploadToStorage POSTs an object into the configured storage bucket and
// returns its public URL. The storage speaks the Supabase storage HTTP
// API; there is no SDK involved.
func UploadToStorage(objectPath, contentType string, data []byte) (string, error) {
	if config.AppConfig.StorageURL == "" {
		return "", errors.New("storage is not configured")
	}

	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s",
		strings.TrimRight(config.AppConfig.StorageURL, "/"),
		config.AppConfig.StorageBucket,
		objectPath,
	)

	req, err := http.NewRequest(http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+config.AppConfig.StorageKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := storageClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("storage upload failed: status %d: %s", resp.StatusCode, string(body))
	}

	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		strings.TrimRight(config.AppConfig.StorageURL, "/"),
		config.AppConfig.StorageBucket,
		objectPath,
	)
	return publicURL, nil
}

// UploadSignature stores a signature image under signatures/ keyed by
// the property code.
func UploadSignature(propertyCode string, png []byte) (string, error) {
	objectPath := fmt.Sprintf("signatures/%s_%d.png", propertyCode, time.Now().UnixMilli())
	return UploadToStorage(objectPath, "image/png", png)
}
