package resp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	ev, next, err := Parse(StateHeader, []byte("+PONG"))
	require.NoError(t, err)
	assert.Equal(t, StateHeader, next)
	assert.Equal(t, EventScalar, ev.Kind)
	assert.Equal(t, Status("PONG"), ev.Value)
}

func TestParseStatusOKIsDistinguished(t *testing.T) {
	ev, _, err := Parse(StateHeader, []byte("+OK"))
	require.NoError(t, err)
	assert.True(t, ev.Value.IsOK())
	assert.Equal(t, OKReply, ev.Value)
}

func TestParseErrorSpansTwoLines(t *testing.T) {
	ev, next, err := Parse(StateHeader, []byte("-ERR"))
	require.NoError(t, err)
	assert.Equal(t, EventErrorHead, ev.Kind)
	assert.Equal(t, StateErrorText, next)

	ev2, next2, err := Parse(next, []byte("unknown command 'FOO'"))
	require.NoError(t, err)
	assert.Equal(t, StateHeader, next2)
	assert.Equal(t, EventScalar, ev2.Kind)
	assert.Equal(t, Error("unknown command 'FOO'"), ev2.Value)
}

func TestParseInteger(t *testing.T) {
	ev, _, err := Parse(StateHeader, []byte(":1000"))
	require.NoError(t, err)
	assert.Equal(t, Integer(1000), ev.Value)

	ev, _, err = Parse(StateHeader, []byte(":-1"))
	require.NoError(t, err)
	assert.Equal(t, Integer(-1), ev.Value)
}

func TestParseBulkHeader(t *testing.T) {
	ev, _, err := Parse(StateHeader, []byte("$-1"))
	require.NoError(t, err)
	assert.Equal(t, EventBulkNil, ev.Kind)

	ev, _, err = Parse(StateHeader, []byte("$0"))
	require.NoError(t, err)
	assert.Equal(t, EventBulkZero, ev.Kind)

	ev, _, err = Parse(StateHeader, []byte("$6"))
	require.NoError(t, err)
	assert.Equal(t, EventBulkN, ev.Kind)
	assert.Equal(t, 6, ev.N)
}

func TestParseMultiBulkHeader(t *testing.T) {
	ev, _, err := Parse(StateHeader, []byte("*-1"))
	require.NoError(t, err)
	assert.Equal(t, EventMultiNil, ev.Kind)

	ev, _, err = Parse(StateHeader, []byte("*0"))
	require.NoError(t, err)
	assert.Equal(t, EventMultiZero, ev.Kind)

	ev, _, err = Parse(StateHeader, []byte("*3"))
	require.NoError(t, err)
	assert.Equal(t, EventMultiN, ev.Kind)
	assert.Equal(t, 3, ev.N)
}

func TestParseUnknownSigilIsFatal(t *testing.T) {
	_, _, err := Parse(StateHeader, []byte("?nope"))
	require.Error(t, err)
}

func TestParseMalformedIntegerIsFatal(t *testing.T) {
	_, _, err := Parse(StateHeader, []byte(":notanumber"))
	require.Error(t, err)
}

func TestParseEmptyLineIsFatal(t *testing.T) {
	_, _, err := Parse(StateHeader, []byte(""))
	require.Error(t, err)
}

func TestUnwrapSingleElementList(t *testing.T) {
	v := MultiBulk([]Value{Bulk([]byte("A"))})
	assert.Equal(t, Bulk([]byte("A")), Unwrap(v))
}

func TestUnwrapLeavesOthersAlone(t *testing.T) {
	v := MultiBulk([]Value{Bulk([]byte("A")), Nil()})
	assert.Equal(t, v, Unwrap(v))

	scalar := Integer(5)
	assert.Equal(t, scalar, Unwrap(scalar))
}
