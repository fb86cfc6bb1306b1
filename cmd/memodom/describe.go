package main

import (
	stderrors "errors"

	"github.com/vango-dev/memodom/internal/errors"
	"github.com/vango-dev/memodom/pkg/driver"
	"github.com/vango-dev/memodom/pkg/journal"
	"github.com/vango-dev/memodom/pkg/protocol"
	"github.com/vango-dev/memodom/pkg/remote"
	"github.com/vango-dev/memodom/pkg/surface"
)

// codes maps library sentinel errors to registered error codes. Order
// matters: the first match wins.
var codes = []struct {
	target error
	code   string
}{
	{driver.ErrPoisoned, "M001"},
	{driver.ErrClosed, "M002"},
	{driver.ErrComponentType, "M003"},
	{driver.ErrDriverGone, "M005"},
	{driver.ErrReentrant, "M006"},
	{surface.ErrDetached, "M011"},
	{journal.ErrCorruptBundle, "M030"},
	{remote.ErrSequenceGap, "M021"},
	{protocol.ErrInvalidFrameType, "M020"},
	{protocol.ErrFrameTooLarge, "M020"},
	{protocol.ErrUnknownOp, "M020"},
	{protocol.ErrIDOutOfRange, "M020"},
}

// describe converts err into a MemoError so the CLI can print a code and
// hint for it.
func describe(err error) error {
	var me *errors.MemoError
	if stderrors.As(err, &me) {
		return me
	}

	var lp *driver.ListenerPanic
	if stderrors.As(err, &lp) {
		return errors.New("M004").Wrap(err)
	}
	var pe *remote.PeerError
	if stderrors.As(err, &pe) {
		return errors.New("M022").Wrap(err)
	}
	for _, c := range codes {
		if stderrors.Is(err, c.target) {
			return errors.New(c.code).Wrap(err)
		}
	}
	var oe *surface.OpError
	if stderrors.As(err, &oe) {
		return errors.New("M010").Wrap(err)
	}
	return err
}
