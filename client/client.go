// Package client talks to a set of Arweave gateways that expose the
// standard HTTP API. Every read shares one retry procedure: each endpoint is
// tried once per cycle, cycles are separated by an exponentially growing
// backoff, and at most retry extra cycles run after the first.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/chainsafe/thegarii/arweave"
)

const initialBackoff = 10 * time.Second

// Client is safe for concurrent use; all requests go through one shared
// HTTP client with the configured per-request timeout.
type Client struct {
	pool  *endpointPool
	http  *http.Client
	retry uint64
	log   *zap.SugaredLogger

	// backoffInitial is the first inter-cycle wait; tests shrink it.
	backoffInitial time.Duration
}

// New validates the endpoint list and builds a client. timeout bounds each
// individual request, retry is the number of extra cycles after every
// endpoint has been tried once.
func New(endpoints []string, timeout time.Duration, retry uint64) (*Client, error) {
	pool, err := newEndpointPool(endpoints)
	if err != nil {
		return nil, err
	}
	return &Client{
		pool:           pool,
		http:           &http.Client{Timeout: timeout},
		retry:          retry,
		log:            zap.S().Named("client"),
		backoffInitial: initialBackoff,
	}, nil
}

// GetBlockByHeight fetches the block at the given height.
func (c *Client) GetBlockByHeight(ctx context.Context, height uint64) (*arweave.Block, error) {
	block := new(arweave.Block)
	if err := c.get(ctx, fmt.Sprintf("block/height/%d", height), block); err != nil {
		return nil, err
	}
	return block, nil
}

// GetBlockByHash fetches the block with the given indep_hash.
func (c *Client) GetBlockByHash(ctx context.Context, hash string) (*arweave.Block, error) {
	block := new(arweave.Block)
	if err := c.get(ctx, "block/hash/"+hash, block); err != nil {
		return nil, err
	}
	return block, nil
}

// GetCurrentBlock fetches the block at the head of the weave.
func (c *Client) GetCurrentBlock(ctx context.Context) (*arweave.Block, error) {
	block := new(arweave.Block)
	if err := c.get(ctx, "current_block", block); err != nil {
		return nil, err
	}
	return block, nil
}

// GetTransactionByID fetches one transaction.
func (c *Client) GetTransactionByID(ctx context.Context, id string) (*arweave.Transaction, error) {
	tx := new(arweave.Transaction)
	if err := c.get(ctx, "tx/"+id, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetTransactionData fetches the raw base64url payload of a transaction. It
// serves interactive use only and deliberately skips the retry procedure.
func (c *Client) GetTransactionData(ctx context.Context, id string) ([]byte, error) {
	endpoint := c.pool.pick(nil)
	body, err := c.getOne(ctx, endpoint, "tx/"+id+"/data")
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound {
		return nil, fmt.Errorf("transaction %s data: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) newBackoff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.backoffInitial
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxInterval = 30 * time.Minute
	bo.MaxElapsedTime = 0
	bo.Reset()
	return bo
}

// get issues one logical GET against the gateway set and decodes the JSON
// response into out. Non-200 responses rotate to the next untried endpoint
// without sleeping; once every endpoint failed, a full backoff cycle starts.
// Transport errors and undecodable bodies fail immediately.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	var (
		tried   = make(map[string]struct{})
		attempt = uint64(0)
		bo      = c.newBackoff()
	)
	for {
		endpoint := c.pool.pick(tried)
		body, err := c.getOne(ctx, endpoint, path)
		var httpErr *HTTPError
		switch {
		case err == nil:
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("decoding response for /%s: %w", path, err)
			}
			return nil

		case errors.As(err, &httpErr):
			c.log.Warnw("gateway request failed",
				"endpoint", endpoint, "path", path, "status", httpErr.Status,
				"attempt", attempt, "attempts_left", c.retry-attempt)
			tried[endpoint] = struct{}{}
			if len(tried) < c.pool.size() {
				continue
			}
			if attempt < c.retry {
				wait := bo.NextBackOff()
				c.log.Infow("every endpoint failed, backing off",
					"path", path, "wait", wait)
				select {
				case <-time.After(wait):
				case <-ctx.Done():
					return ctx.Err()
				}
				attempt++
				tried = make(map[string]struct{})
				continue
			}
			return fmt.Errorf("GET /%s: %w", path, ErrRetriesReached)

		default:
			return err
		}
	}
}

func (c *Client) getOne(ctx context.Context, endpoint, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"/"+path, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s/%s: %w", endpoint, path, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s/%s: %w", endpoint, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{Endpoint: endpoint, Path: path, Status: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}
