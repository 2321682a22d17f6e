// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/blang/semver/v4"

	"github.com/iontide/iontide-go/logger"
)

// supportedAPIRange is the API version range this SDK release speaks.
var supportedAPIRange = semver.MustParseRange(">=1.0.0 <2.0.0")

// APIVersion asks the endpoint which API version it serves.
func (c *Client) APIVersion(ctx context.Context) (semver.Version, error) {
	var reply struct {
		Version string `json:"version"`
	}
	if err := c.do(ctx, http.MethodGet, c.endpoint("version"), nil, &reply); err != nil {
		return semver.Version{}, err
	}
	v, err := semver.Parse(reply.Version)
	if err != nil {
		return semver.Version{}, fmt.Errorf("when parsing api version %q: %w", reply.Version, err)
	}
	return v, nil
}

// CheckAPIVersion fails when the endpoint serves an API major version this
// SDK does not speak. A newer minor within the supported major logs a
// warning: the API stays backward compatible, but newer server features
// may be missing client-side.
func (c *Client) CheckAPIVersion(ctx context.Context) error {
	v, err := c.APIVersion(ctx)
	if err != nil {
		return err
	}
	if !supportedAPIRange(v) {
		return fmt.Errorf("api version %s is outside the supported range >=1.0.0 <2.0.0", v)
	}
	if v.Minor > 0 {
		log := logger.Logger()
		log.Warn().Str("api", v.String()).Msg("endpoint serves a newer api minor than this SDK was built against. there are no guarantees on feature completeness")
	}
	return nil
}
