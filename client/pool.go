package client

import "math/rand"

// endpointPool hands out gateway base URLs for the attempts of one logical
// GET. Rotation order is the configured order; once every endpoint has been
// tried in the current cycle, pick falls back to a uniformly random member.
type endpointPool struct {
	endpoints []string
}

func newEndpointPool(endpoints []string) (*endpointPool, error) {
	if len(endpoints) == 0 {
		return nil, ErrEmptyEndpoints
	}
	return &endpointPool{endpoints: endpoints}, nil
}

func (p *endpointPool) pick(tried map[string]struct{}) string {
	for _, e := range p.endpoints {
		if _, ok := tried[e]; !ok {
			return e
		}
	}
	return p.endpoints[rand.Intn(len(p.endpoints))]
}

func (p *endpointPool) size() int {
	return len(p.endpoints)
}
