package bridge

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/liquid-icx/licx-client/internal/constants"
	"github.com/liquid-icx/licx-client/internal/icon"
	"github.com/liquid-icx/licx-client/internal/notice"
	"github.com/quantumauth-io/quantum-go-utils/log"
	"github.com/quantumauth-io/quantum-go-utils/retry"
)

// pollRetryConfig retries forever with a flat DefaultPollInterval between
// lookups. Initial and max delay are equal so the backoff never grows.
func pollRetryConfig() *retry.Config {
	cfg := retry.DefaultConfig()
	cfg.MaxNumRetries = retry.InfiniteRetries
	cfg.InitialDelayBeforeRetrying = constants.DefaultPollInterval
	cfg.MaxDelayBeforeRetrying = constants.DefaultPollInterval
	cfg.ShouldLogFirstFailure = false
	return cfg
}

// PollTransactionResult looks up txHash until the node has a result. Only
// pending errors are retried. Cancel ctx to stop waiting.
func (b *Bridge) PollTransactionResult(ctx context.Context, txHash string) (*icon.TransactionResult, error) {
	attempts := 0
	out, err := retry.Retry(ctx, b.retry,
		func(ctx context.Context) ([]interface{}, error) {
			attempts++
			res, err := b.chain.GetTransactionResult(ctx, txHash)
			if err != nil {
				if icon.IsPending(err) {
					b.trace("transaction pending", "tx", txHash, "attempt", attempts)
				}
				return nil, err
			}
			return []interface{}{res}, nil
		},
		icon.IsPending,
		"get transaction result "+txHash)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Error("transaction result lookup failed", "tx", txHash, "attempts", attempts, "error", err)
		b.notifier.Notify(notice.New(notice.TxFailed, "could not get result of transaction "+txHash))
		return nil, errors.Wrapf(err, "transaction %s", txHash)
	}

	res := out[0].(*icon.TransactionResult)
	b.reportResult(ctx, txHash, res)
	return res, nil
}

func (b *Bridge) reportResult(ctx context.Context, txHash string, res *icon.TransactionResult) {
	if !res.Succeeded() {
		msg := "transaction " + txHash + " failed"
		if res.Failure != nil && res.Failure.Message != "" {
			msg += ": " + res.Failure.Message
		}
		log.Warn("transaction failed", "tx", txHash, "status", res.Status)
		b.notifier.Notify(notice.New(notice.TxFailed, msg))
		return
	}

	log.Info("transaction confirmed", "tx", txHash, "block", res.BlockHeight)
	b.notifier.Notify(notice.New(notice.TxConfirmed, "transaction "+txHash+" confirmed"))

	if w := b.state.Wallet(); w != nil {
		if err := b.refreshWallet(ctx, w.Address); err != nil {
			log.Error("wallet refresh after transaction failed", "tx", txHash, "error", err)
		}
	}
}
