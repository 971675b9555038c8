package cart_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oakmart/storefront-web/internal/backend"
	"github.com/oakmart/storefront-web/internal/cart"
	"github.com/oakmart/storefront-web/internal/notice"
)

type fakeWriter struct {
	cartCalls   int
	upsertCalls int

	lastToken     string
	lastProductID string
	lastQty       int

	cartEntries []cart.Entry
	cartErr     error
	upsertResp  []cart.Entry
	upsertErr   error
}

func (f *fakeWriter) Cart(_ context.Context, token string) ([]cart.Entry, error) {
	f.cartCalls++
	f.lastToken = token
	return f.cartEntries, f.cartErr
}

func (f *fakeWriter) UpsertCart(_ context.Context, token, productID string, qty int) ([]cart.Entry, error) {
	f.upsertCalls++
	f.lastToken = token
	f.lastProductID = productID
	f.lastQty = qty
	return f.upsertResp, f.upsertErr
}

func noticeCtx(t *testing.T) (context.Context, *notice.Buffer) {
	t.Helper()
	buf := &notice.Buffer{}
	return notice.NewContext(context.Background(), buf), buf
}

func TestAddOrUpdateDuplicateRefusedLocally(t *testing.T) {
	t.Parallel()

	writer := &fakeWriter{}
	state := cart.NewState()
	state.Replace([]cart.Entry{{ProductID: "A", Qty: 1}})
	mutator := cart.NewMutator(writer, state, nil)

	ctx, buf := noticeCtx(t)
	err := mutator.AddOrUpdate(ctx, "token", "A", 1, cart.Options{PreventDuplicate: true})

	require.True(t, cart.IsDuplicate(err))
	require.Zero(t, writer.upsertCalls, "duplicate add must not reach the network")

	notices := buf.Drain()
	require.Len(t, notices, 1)
	require.Equal(t, notice.ToneWarning, notices[0].Tone)
	require.Contains(t, notices[0].Message, "already in cart")
}

func TestAddOrUpdateReplacesStateWithServerResponse(t *testing.T) {
	t.Parallel()

	// The server returns an entry the client never asked about; the local
	// record must match the response exactly anyway.
	writer := &fakeWriter{upsertResp: []cart.Entry{
		{ProductID: "A", Qty: 3},
		{ProductID: "other", Qty: 9},
	}}
	state := cart.NewState()
	state.Replace([]cart.Entry{{ProductID: "A", Qty: 1}})
	mutator := cart.NewMutator(writer, state, nil)

	ctx, buf := noticeCtx(t)
	err := mutator.AddOrUpdate(ctx, "token", "A", 3, cart.Options{})

	require.NoError(t, err)
	require.Equal(t, 1, writer.upsertCalls)
	require.Equal(t, "token", writer.lastToken)
	require.Equal(t, "A", writer.lastProductID)
	require.Equal(t, 3, writer.lastQty)

	entries, known := state.Entries()
	require.True(t, known)
	require.Equal(t, writer.upsertResp, entries)
	require.Empty(t, buf.Drain())
}

func TestAddOrUpdateRejectionLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	writer := &fakeWriter{upsertErr: &backend.Error{Status: 404, Message: "Product doesn't exist"}}
	state := cart.NewState()
	prior := []cart.Entry{{ProductID: "A", Qty: 1}}
	state.Replace(prior)
	mutator := cart.NewMutator(writer, state, nil)

	ctx, buf := noticeCtx(t)
	err := mutator.AddOrUpdate(ctx, "token", "bogus", 1, cart.Options{})

	require.Error(t, err)
	entries, known := state.Entries()
	require.True(t, known)
	require.Equal(t, prior, entries)

	notices := buf.Drain()
	require.Len(t, notices, 1)
	require.Equal(t, notice.ToneError, notices[0].Tone)
	require.Equal(t, "Product doesn't exist", notices[0].Message)
}

func TestAddOrUpdateTransportFailureGenericNotice(t *testing.T) {
	t.Parallel()

	writer := &fakeWriter{upsertErr: errors.New("dial tcp: connection refused")}
	state := cart.NewState()
	mutator := cart.NewMutator(writer, state, nil)

	ctx, buf := noticeCtx(t)
	err := mutator.AddOrUpdate(ctx, "token", "A", 1, cart.Options{})

	require.Error(t, err)
	notices := buf.Drain()
	require.Len(t, notices, 1)
	require.Equal(t, notice.ToneError, notices[0].Tone)
	require.Contains(t, notices[0].Message, "backend is running")
}

func TestRefreshWithoutTokenIsNoop(t *testing.T) {
	t.Parallel()

	writer := &fakeWriter{}
	state := cart.NewState()
	mutator := cart.NewMutator(writer, state, nil)

	ctx, buf := noticeCtx(t)
	require.NoError(t, mutator.Refresh(ctx, ""))
	require.Zero(t, writer.cartCalls)
	require.Empty(t, buf.Drain())
}

func TestRefreshReplacesWholesale(t *testing.T) {
	t.Parallel()

	writer := &fakeWriter{cartEntries: []cart.Entry{{ProductID: "B", Qty: 2}}}
	state := cart.NewState()
	state.Replace([]cart.Entry{{ProductID: "A", Qty: 5}})
	mutator := cart.NewMutator(writer, state, nil)

	ctx, _ := noticeCtx(t)
	require.NoError(t, mutator.Refresh(ctx, "token"))

	entries, known := state.Entries()
	require.True(t, known)
	require.Equal(t, []cart.Entry{{ProductID: "B", Qty: 2}}, entries)
}

func TestRefreshClientRejectionSurfacesServerMessage(t *testing.T) {
	t.Parallel()

	writer := &fakeWriter{cartErr: &backend.Error{Status: 401, Message: "Protected route, Oauth2 Bearer token not found"}}
	state := cart.NewState()
	state.Replace([]cart.Entry{{ProductID: "A", Qty: 1}})
	mutator := cart.NewMutator(writer, state, nil)

	ctx, buf := noticeCtx(t)
	require.Error(t, mutator.Refresh(ctx, "bad-token"))

	_, known := state.Entries()
	require.False(t, known, "failed fetch must leave the cart unknown, not empty")

	notices := buf.Drain()
	require.Len(t, notices, 1)
	require.Equal(t, "Protected route, Oauth2 Bearer token not found", notices[0].Message)
}

func TestRefreshTransportFailureGenericNotice(t *testing.T) {
	t.Parallel()

	writer := &fakeWriter{cartErr: errors.New("timeout")}
	state := cart.NewState()
	mutator := cart.NewMutator(writer, state, nil)

	ctx, buf := noticeCtx(t)
	require.Error(t, mutator.Refresh(ctx, "token"))

	_, known := state.Entries()
	require.False(t, known)

	notices := buf.Drain()
	require.Len(t, notices, 1)
	require.Contains(t, notices[0].Message, "Could not fetch cart details")
}
