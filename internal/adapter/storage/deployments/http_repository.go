package deployments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	dto "mangrove-addresses/internal/adapter/storage/deployments/dto"
	"mangrove-addresses/internal/config"
	"mangrove-addresses/internal/domain"
	"mangrove-addresses/internal/domain/entity"
	domainRepo "mangrove-addresses/internal/domain/repository"
	"mangrove-addresses/internal/pkg/apperrors"

	"github.com/patrickmn/go-cache"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainRepo.DeploymentRepository = (*HTTPRepository)(nil)

// HTTPRepository implements DeploymentRepository for a deployments data set served over HTTP.
type HTTPRepository struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	cache   *cache.Cache
	logger  *zap.Logger
}

// NewHTTPRepository creates a repository fetching documents below the configured source URL.
// Decoded documents are cached for the configured default expiration.
func NewHTTPRepository(cfg config.SourceConfig, cacheCfg config.CacheConfig, logger *zap.Logger) *HTTPRepository {
	return &HTTPRepository{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(cfg.URL, "/"),
		timeout: cfg.GetTimeout(),
		cache:   cache.New(cacheCfg.GetDefaultExpiration(), cacheCfg.GetCleanupInterval()),
		logger:  logger.Named("DeploymentsHTTPStorage"),
	}
}

// QueryDeployments fetches the contract's document and selects the latest collection matching the filter.
func (r *HTTPRepository) QueryDeployments(
	ctx context.Context,
	contract entity.Contract,
	filter entity.DeploymentFilter,
) (entity.DeploymentCollection, bool, error) {
	collections, err := r.loadCollections(ctx, contract)
	if err != nil {
		return entity.DeploymentCollection{}, false, err
	}
	return selectLatest(collections, filter)
}

func (r *HTTPRepository) loadCollections(ctx context.Context, contract entity.Contract) ([]entity.DeploymentCollection, error) {
	url := r.baseURL + "/" + contract.Document

	if x, found := r.cache.Get(url); found {
		if collections, ok := x.([]entity.DeploymentCollection); ok {
			r.logger.Debug("Document cache hit", zap.String("url", url))
			return collections, nil
		}
		r.logger.Warn("Document cache data type mismatch", zap.String("url", url), zap.String("type", fmt.Sprintf("%T", x)))
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %v", apperrors.ErrTimeout, url, err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAcceptEncoding, "gzip")

	timeout := r.timeout
	if deadline, hasDeadline := ctx.Deadline(); hasDeadline {
		requestTimeout := time.Until(deadline)
		if requestTimeout > 0 && requestTimeout < timeout {
			timeout = requestTimeout
		}
	}

	r.logger.Debug("Fetching deployments document",
		zap.String("contract", contract.Name),
		zap.String("url", url),
		zap.Duration("timeout", timeout),
	)

	if err := r.client.DoTimeout(req, resp, timeout); err != nil {
		r.logger.Error("Failed to fetch deployments document", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("%w: failed to fetch %s: %v", apperrors.ErrExternalServiceFailure, url, err)
	}

	if resp.StatusCode() == fasthttp.StatusNotFound {
		r.logger.Warn("Deployments document not found", zap.String("url", url))
		return nil, fmt.Errorf("%w: deployments document %s", apperrors.ErrNotFound, url)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		r.logger.Error("Deployments source returned non-OK status",
			zap.String("url", url),
			zap.Int("statusCode", resp.StatusCode()),
		)
		return nil, fmt.Errorf("%w: %s returned status %d",
			apperrors.ErrExternalServiceFailure, url, resp.StatusCode(),
		)
	}

	var body []byte
	if bytes.EqualFold(resp.Header.Peek(fasthttp.HeaderContentEncoding), []byte("gzip")) {
		var err error
		body, err = resp.BodyGunzip()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to decompress %s: %v", apperrors.ErrExternalServiceFailure, url, err)
		}
	} else {
		body = resp.Body()
	}

	var rawCollections []dto.CollectionRaw
	if err := json.Unmarshal(body, &rawCollections); err != nil {
		r.logger.Error("Failed to decode deployments document",
			zap.String("url", url),
			zap.ByteString("bodySample", body[:min(1024, len(body))]),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformedDeployments, url, err)
	}

	collections, err := toDomainCollections(contract.Document, rawCollections)
	if err != nil {
		return nil, err
	}

	r.cache.SetDefault(url, collections)
	r.logger.Debug("Fetched deployments document",
		zap.String("contract", contract.Name),
		zap.Int("versions", len(collections)),
	)
	return collections, nil
}
