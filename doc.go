// Package iontide provides a Go SDK for the IonTide trapped-ion quantum
// computing cloud.
//
// The SDK converts gate-level circuits built with the circuit package into
// the IonTide wire format (wire package), submits them to a workspace
// resource (backend and client packages), tracks the asynchronous job
// lifecycle, and reconstructs measurement results (result package) as
// histogram counts and optional per-shot memory.
//
// A minimal round trip:
//
//	c := circuit.New("bell")
//	q := c.AddQuantumRegister("q", 2)
//	m := c.AddClassicalRegister("c", 2)
//	c.R(math.Pi/2, math.Pi/2, q.Bit(0))
//	c.RXX(math.Pi/2, q.Bit(0), q.Bit(1))
//	c.Measure(q.Bit(0), m.Bit(0))
//	c.Measure(q.Bit(1), m.Bit(1))
//
//	gw, _ := client.New("https://api.iontide.dev/v1", token)
//	res := backend.NewResource(gw, "my-workspace", "trap-12")
//	job, _ := res.Run(ctx, []*circuit.Circuit{c}, backend.WithShots(200))
//	out, _ := job.Result(ctx)
package iontide

import (
	"github.com/blang/semver/v4"
)

// Version of the iontide-go SDK.
var Version = semver.MustParse("0.4.0")
