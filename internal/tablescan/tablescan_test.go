package tablescan

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dispatchSource = `// Copyright (c) 2018 The Bitcoin developers
#include <rpc/server.h>

// clang-format off
static const ContextFreeRPCCommand commands[] = {
    //  category   name             actor (function)   argNames
    //  ---------- ---------------- ------------------ ----------
    { "wallet",  "getbalance",    &getbalance,       {"account|dummy", "minconf"} },
    { "wallet",  "sendtoaddress", &sendtoaddress,    {"address", "amount"} },
    { "control", "stop",          &stop,             {} },
};
// clang-format on

void RegisterWalletRPCCommands(CRPCTable &t) {
    for (unsigned int vcidx = 0; vcidx < ARRAYLEN(commands); vcidx++) {
        t.appendCommand(commands[vcidx].name, &commands[vcidx]);
    }
}
`

const conversionSource = `static const CRPCConvertParam vRPCConvertParams[] = {
    {"getbalance", 1, "minconf"},
    {"sendtoaddress", 1, "amount"},

    {"stop", 0, "wait"},
};
`

func TestExtractCommands(t *testing.T) {
	fsys := fstest.MapFS{
		"src/rpc/wallet.cpp": &fstest.MapFile{Data: []byte(dispatchSource)},
	}

	cmds, err := ExtractCommands(fsys, "src/rpc/wallet.cpp")
	require.NoError(t, err)
	require.Len(t, cmds, 3)

	assert.Equal(t, "getbalance", cmds[0].Name)
	assert.Equal(t, [][]string{{"account", "dummy"}, {"minconf"}}, cmds[0].Args)

	assert.Equal(t, "sendtoaddress", cmds[1].Name)
	assert.Equal(t, [][]string{{"address"}, {"amount"}}, cmds[1].Args)

	assert.Equal(t, "stop", cmds[2].Name)
	assert.Empty(t, cmds[2].Args)
}

func TestExtractCommandsNoTable(t *testing.T) {
	fsys := fstest.MapFS{
		"src/rpc/empty.cpp": &fstest.MapFile{Data: []byte("#include <rpc/server.h>\n")},
	}

	cmds, err := ExtractCommands(fsys, "src/rpc/empty.cpp")
	require.NoError(t, err)
	assert.Empty(t, cmds)
}

func TestExtractCommandsMultipleTables(t *testing.T) {
	src := `static const ContextFreeRPCCommand commands[] = {
    { "wallet", "getbalance", &getbalance, {} },
};

static const ContextFreeRPCCommand hiddenCommands[] = {
    { "hidden", "invalidateblock", &invalidateblock, {"blockhash"} },
};
`
	fsys := fstest.MapFS{
		"src/rpc/blockchain.cpp": &fstest.MapFile{Data: []byte(src)},
	}

	cmds, err := ExtractCommands(fsys, "src/rpc/blockchain.cpp")
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, "getbalance", cmds[0].Name)
	assert.Equal(t, "invalidateblock", cmds[1].Name)
}

func TestExtractCommandsStaleRow(t *testing.T) {
	src := `static const ContextFreeRPCCommand commands[] = {
    { "wallet", "getbalance" },
};
`
	fsys := fstest.MapFS{
		"src/rpc/wallet.cpp": &fstest.MapFile{Data: []byte(src)},
	}

	_, err := ExtractCommands(fsys, "src/rpc/wallet.cpp")
	var gerr *GrammarError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "src/rpc/wallet.cpp", gerr.Path)
	assert.Equal(t, 2, gerr.Line)
	assert.Contains(t, gerr.Error(), "no match to table expression")
}

func TestExtractCommandsUnclosedTable(t *testing.T) {
	src := `static const ContextFreeRPCCommand commands[] = {
    { "wallet", "getbalance", &getbalance, {} },
`
	fsys := fstest.MapFS{
		"src/rpc/wallet.cpp": &fstest.MapFile{Data: []byte(src)},
	}

	_, err := ExtractCommands(fsys, "src/rpc/wallet.cpp")
	var gerr *GrammarError
	require.ErrorAs(t, err, &gerr)
	assert.Contains(t, gerr.Error(), "not closed")
}

func TestExtractCommandsMissingFile(t *testing.T) {
	_, err := ExtractCommands(fstest.MapFS{}, "src/rpc/missing.cpp")
	require.Error(t, err)
}

func TestExtractConversions(t *testing.T) {
	fsys := fstest.MapFS{
		"src/rpc/client.cpp": &fstest.MapFile{Data: []byte(conversionSource)},
	}

	convs, err := ExtractConversions(fsys, "src/rpc/client.cpp")
	require.NoError(t, err)

	assert.Equal(t, []ConversionRow{
		{Command: "getbalance", Index: 1, Alias: "minconf"},
		{Command: "sendtoaddress", Index: 1, Alias: "amount"},
		{Command: "stop", Index: 0, Alias: "wait"},
	}, convs)
}

func TestExtractConversionsEmptyTableIsFatal(t *testing.T) {
	src := `static const CRPCConvertParam vRPCConvertParams[] = {
};
`
	fsys := fstest.MapFS{
		"src/rpc/client.cpp": &fstest.MapFile{Data: []byte(src)},
	}

	_, err := ExtractConversions(fsys, "src/rpc/client.cpp")
	var gerr *GrammarError
	require.ErrorAs(t, err, &gerr)
	assert.Contains(t, gerr.Error(), "no conversion table rows")
}

func TestExtractConversionsStaleRow(t *testing.T) {
	src := `static const CRPCConvertParam vRPCConvertParams[] = {
    {"getbalance", "minconf"},
};
`
	fsys := fstest.MapFS{
		"src/rpc/client.cpp": &fstest.MapFile{Data: []byte(src)},
	}

	_, err := ExtractConversions(fsys, "src/rpc/client.cpp")
	var gerr *GrammarError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, 2, gerr.Line)
}
