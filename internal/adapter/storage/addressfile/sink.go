package addressfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"mangrove-addresses/internal/domain/entity"
	domainRepo "mangrove-addresses/internal/domain/repository"

	"go.uber.org/zap"
)

// DeployedDir is the directory, relative to the base dir, holding one address file per network.
const DeployedDir = "addresses/deployed"

// Compile-time check
var _ domainRepo.AddressSink = (*Sink)(nil)

// Sink writes each network's records to <base>/addresses/deployed/<network>.json.
type Sink struct {
	baseDir string
	logger  *zap.Logger
}

// NewSink creates a file sink rooted at baseDir.
func NewSink(baseDir string, logger *zap.Logger) *Sink {
	return &Sink{
		baseDir: baseDir,
		logger:  logger.Named("AddressFileSink"),
	}
}

// Path returns the address file of a network.
func (s *Sink) Path(network entity.NetworkName) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(DeployedDir), network.String()+".json")
}

// WriteNetworkAddresses replaces the network's address file with the records as 2-space indented JSON.
func (s *Sink) WriteNetworkAddresses(
	_ context.Context,
	network entity.NetworkName,
	records []entity.NetworkAddress,
) error {
	if records == nil {
		records = []entity.NetworkAddress{}
	}
	data, err := encodeRecords(records)
	if err != nil {
		return fmt.Errorf("failed to encode %s addresses: %w", network, err)
	}

	path := s.Path(network)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	s.logger.Debug("Wrote network addresses",
		zap.String("network", network.String()),
		zap.String("path", path),
		zap.Int("count", len(records)),
	)
	return nil
}

// encodeRecords renders records as 2-space indented JSON with no trailing newline.
// HTML characters are written as-is.
func encodeRecords(records []entity.NetworkAddress) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
