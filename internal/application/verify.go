package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"mangrove-addresses/internal/domain"
	"mangrove-addresses/internal/domain/entity"
	"mangrove-addresses/internal/pkg/apperrors"

	"go.uber.org/zap"
)

// verifyAddresses checks every record of networks with a configured RPC URL for contract code.
// It returns the joined failures; nothing is retried.
func (a *addressAggregator) verifyAddresses(ctx context.Context, book *entity.AddressBook) error {
	if a.codeChecker == nil {
		return fmt.Errorf("%w: verification enabled without a code checker", apperrors.ErrInternal)
	}

	var checks []entity.CodeCheck
	for _, network := range book.Networks() {
		rawURL, ok := a.cfg.Verify.RPCURLs[network.String()]
		if !ok || rawURL == "" {
			a.logger.Warn("No RPC URL configured, skipping verification", zap.String("network", network.String()))
			continue
		}
		rpcURL, err := entity.NewRPCURL(rawURL)
		if err != nil {
			return fmt.Errorf("%w: verify.rpc_urls.%s: %v", apperrors.ErrInvalidInput, network, err)
		}
		records, _ := book.Addresses(network)
		for _, record := range records {
			checks = append(checks, entity.CodeCheck{
				Network:  network,
				Record:   record,
				RPC:      rpcURL,
				Protocol: rpcURL.Protocol(),
			})
		}
	}
	if len(checks) == 0 {
		return nil
	}

	a.runCodeChecks(ctx, checks)

	var errs []error
	for _, check := range checks {
		switch {
		case check.Err != nil:
			errs = append(errs, fmt.Errorf("%s on %s (%s): %w",
				check.Record.Name, check.Network, check.Record.Address, check.Err,
			))
		case check.Deployed == nil || !*check.Deployed:
			errs = append(errs, fmt.Errorf("%w: %s on %s (%s)",
				domain.ErrAddressNotDeployed, check.Record.Name, check.Network, check.Record.Address,
			))
		}
	}

	if len(errs) > 0 {
		a.logger.Error("Address verification failed", zap.Int("failed", len(errs)), zap.Int("checked", len(checks)))
		return errors.Join(errs...)
	}
	a.logger.Info("Verified deployed addresses", zap.Int("checked", len(checks)))
	return nil
}

// runCodeChecks fills in the outcome of each check using a bounded pool of workers.
func (a *addressAggregator) runCodeChecks(ctx context.Context, checks []entity.CodeCheck) {
	numWorkers := a.cfg.Verify.MaxWorkers
	if numWorkers <= 0 {
		numWorkers = 5
	}
	if len(checks) < numWorkers {
		numWorkers = len(checks)
	}
	timeout := a.cfg.Verify.GetTimeout()

	jobChan := make(chan int, len(checks))
	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range jobChan {
				check := &checks[idx]

				checkCtx, cancel := ctx, context.CancelFunc(func() {})
				if timeout > 0 {
					checkCtx, cancel = context.WithTimeout(ctx, timeout)
				}
				deployed, latency, err := a.codeChecker.CheckCode(checkCtx, check.RPC, check.Record.Address)
				cancel()

				if err != nil {
					check.Err = err
					a.logger.Debug("Code check failed",
						zap.Int("workerID", workerID),
						zap.String("address", check.Record.Address),
						zap.Error(err),
					)
					continue
				}
				latencyMs := latency.Milliseconds()
				check.Deployed = &deployed
				check.LatencyMs = &latencyMs
			}
		}(w)
	}

	for i := range checks {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
}
