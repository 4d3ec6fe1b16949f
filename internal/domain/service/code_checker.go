package service

import (
	"context"
	"time"

	"mangrove-addresses/internal/domain/entity"
)

// CodeChecker defines the interface for checking that an address holds contract code.
type CodeChecker interface {
	CheckCode(ctx context.Context, rpcURL entity.RPCURL, address string) (bool, time.Duration, error)
}
