package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/Dimont/diogoboilerplate/x/escrow/types"
)

type fakeClient struct {
	delivered []types.Msg
	escrows   map[string]*types.QueryDetailsResponse
}

func (c *fakeClient) Deliver(cmd *cobra.Command, msg types.Msg) error {
	c.delivered = append(c.delivered, msg)
	return PrintJSON(cmd, msg)
}

func (c *fakeClient) List(context.Context) (*types.QueryListResponse, error) {
	res := &types.QueryListResponse{Escrows: []string{}}
	for id := range c.escrows {
		res.Escrows = append(res.Escrows, id)
	}
	return res, nil
}

func (c *fakeClient) Details(_ context.Context, id string) (*types.QueryDetailsResponse, error) {
	res, ok := c.escrows[id]
	if !ok {
		return nil, types.ErrNotFound.Wrapf("escrow %s", id)
	}
	return res, nil
}

func (c *fakeClient) get(*cobra.Command) (Client, error) { return c, nil }

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommandConstruction(t *testing.T) {
	c := &fakeClient{}
	for _, cmd := range []*cobra.Command{GetQueryCmd(c.get), GetTxCmd(c.get)} {
		require.NotEmpty(t, cmd.Use)
		for _, sub := range cmd.Commands() {
			require.NotEmpty(t, sub.Use)
			require.NotEmpty(t, sub.Short)
		}
	}
	require.Len(t, GetTxCmd(c.get).Commands(), 7)
	require.Len(t, GetQueryCmd(c.get).Commands(), 2)
}

func TestParseFunds(t *testing.T) {
	coins, err := ParseFunds("250random, 300stake,100fee")
	require.NoError(t, err)
	require.Equal(t, "250random,300stake,100fee", sdk.Coins(coins).String())

	coins, err = ParseFunds("")
	require.NoError(t, err)
	require.Empty(t, coins)

	_, err = ParseFunds("lots")
	require.Error(t, err)
}

func TestCmdCreate(t *testing.T) {
	c := &fakeClient{}
	out, err := run(t, CmdCreate(c.get), "foobar", "arbiter",
		"--recipient", "recd",
		"--title", "some_title",
		"--end-height", "0",
		"--whitelist", "bar_token,foo_token",
		"--funds", "100fee,200stake",
		"--from", "source",
	)
	require.NoError(t, err)
	require.Contains(t, out, `"foobar"`)
	require.Len(t, c.delivered, 1)

	msg, ok := c.delivered[0].(*types.MsgCreateEscrow)
	require.True(t, ok)
	require.Equal(t, "source", msg.Sender)
	require.Equal(t, "foobar", msg.Escrow.ID)
	require.Equal(t, "arbiter", msg.Escrow.Arbiter)
	require.NotNil(t, msg.Escrow.Recipient)
	require.Equal(t, "recd", *msg.Escrow.Recipient)
	require.Equal(t, "some_title", msg.Escrow.Title)
	require.NotNil(t, msg.Escrow.EndHeight)
	require.Zero(t, *msg.Escrow.EndHeight)
	require.Nil(t, msg.Escrow.EndTime)
	require.Equal(t, []string{"bar_token", "foo_token"}, msg.Escrow.Cw20Whitelist)
	require.Equal(t, "100fee,200stake", sdk.Coins(msg.Funds).String())
}

func TestCmdCreateWithoutRecipient(t *testing.T) {
	c := &fakeClient{}
	_, err := run(t, CmdCreate(c.get), "foobar", "arbiter", "--funds", "1stake", "--from", "source")
	require.NoError(t, err)

	msg := c.delivered[0].(*types.MsgCreateEscrow)
	require.Nil(t, msg.Escrow.Recipient)
	require.Nil(t, msg.Escrow.EndHeight)
}

func TestTxCommandsRejectBeforeDelivery(t *testing.T) {
	c := &fakeClient{}
	tests := []struct {
		name string
		cmd  *cobra.Command
		args []string
	}{
		{"missing from", CmdApprove(c.get), []string{"foobar"}},
		{"short id", CmdApprove(c.get), []string{"ab", "--from", "arbiter"}},
		{"bad funds", CmdTopUp(c.get), []string{"foobar", "--funds", "xyz", "--from", "source"}},
		{"bad amount", CmdReceive(c.get), []string{"lots", "foobar", "--depositor", "source", "--from", "token"}},
		{"missing depositor", CmdReceive(c.get), []string{"10", "foobar", "--from", "token"}},
		{"wrong arg count", CmdSetRecipient(c.get), []string{"foobar", "--from", "arbiter"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := run(t, tc.cmd, tc.args...)
			require.Error(t, err)
		})
	}
	require.Empty(t, c.delivered)
}

func TestIDCommands(t *testing.T) {
	c := &fakeClient{}
	_, err := run(t, CmdSetRecipient(c.get), "foobar", "recd", "--from", "arbiter")
	require.NoError(t, err)
	_, err = run(t, CmdApprove(c.get), "foobar", "--from", "arbiter")
	require.NoError(t, err)
	_, err = run(t, CmdRefund(c.get), "foobar", "--from", "anyone")
	require.NoError(t, err)
	_, err = run(t, CmdTopUp(c.get), "foobar", "--funds", "250random,300stake", "--from", "source")
	require.NoError(t, err)

	require.Len(t, c.delivered, 4)
	require.Equal(t, []types.Msg{
		types.NewMsgSetRecipient("arbiter", "foobar", "recd"),
		types.NewMsgApprove("arbiter", "foobar"),
		types.NewMsgRefund("anyone", "foobar"),
	}, c.delivered[:3])

	topUp := c.delivered[3].(*types.MsgTopUp)
	require.Equal(t, "source", topUp.Sender)
	require.Equal(t, "foobar", topUp.ID)
	require.Equal(t, "250random,300stake", sdk.Coins(topUp.Funds).String())
}

func TestCmdReceive(t *testing.T) {
	c := &fakeClient{}
	_, err := run(t, CmdReceive(c.get), "7890", "foobar", "--depositor", "source", "--from", "bar_token")
	require.NoError(t, err)
	_, err = run(t, CmdReceive(c.get), "100", "newone", "arbiter",
		"--whitelist", "bar_token", "--depositor", "source", "--from", "bar_token")
	require.NoError(t, err)
	require.Len(t, c.delivered, 2)

	topUp := c.delivered[0].(*types.MsgReceive)
	require.Equal(t, "bar_token", topUp.Sender)
	require.Equal(t, "source", topUp.Receive.Sender)
	require.True(t, topUp.Receive.Amount.Equal(math.NewInt(7890)))
	instruction, err := types.DecodeReceiveMsg(topUp.Receive.Msg)
	require.NoError(t, err)
	require.Equal(t, &types.IDMsg{ID: "foobar"}, instruction.TopUp)

	create := c.delivered[1].(*types.MsgReceive)
	instruction, err = types.DecodeReceiveMsg(create.Receive.Msg)
	require.NoError(t, err)
	require.NotNil(t, instruction.CreateEscrow)
	require.Equal(t, "newone", instruction.CreateEscrow.ID)
	require.Equal(t, "arbiter", instruction.CreateEscrow.Arbiter)
	require.Equal(t, []string{"bar_token"}, instruction.CreateEscrow.Cw20Whitelist)
}

func TestCmdExec(t *testing.T) {
	c := &fakeClient{}

	cmd := CmdExec(c.get)
	cmd.SetIn(strings.NewReader(`{"approve":{"id":"foobar"}}` + "\n"))
	_, err := run(t, cmd, "-", "--from", "arbiter")
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "top_up.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"top_up":{"id":"foobar"}}`), 0o600))
	_, err = run(t, CmdExec(c.get), file, "--funds", "5stake", "--from", "source")
	require.NoError(t, err)

	require.Len(t, c.delivered, 2)
	require.Equal(t, types.NewMsgApprove("arbiter", "foobar"), c.delivered[0])
	topUp := c.delivered[1].(*types.MsgTopUp)
	require.Equal(t, "5stake", sdk.Coins(topUp.Funds).String())

	cmd = CmdExec(c.get)
	cmd.SetIn(strings.NewReader(`{"approve":{"id":"foobar"},"refund":{"id":"foobar"}}`))
	_, err = run(t, cmd, "-", "--from", "arbiter")
	require.ErrorIs(t, err, types.ErrInvalidMsg)
	require.Len(t, c.delivered, 2)
}

func TestQueryCommands(t *testing.T) {
	c := &fakeClient{escrows: map[string]*types.QueryDetailsResponse{
		"foobar": {ID: "foobar", Arbiter: "arbiter", Source: "source"},
	}}

	out, err := run(t, GetCmdQueryList(c.get))
	require.NoError(t, err)
	var list types.QueryListResponse
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Equal(t, []string{"foobar"}, list.Escrows)

	out, err = run(t, GetCmdQueryDetails(c.get), "foobar")
	require.NoError(t, err)
	var details types.QueryDetailsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &details))
	require.Equal(t, "arbiter", details.Arbiter)

	_, err = run(t, GetCmdQueryDetails(c.get), "missing")
	require.ErrorIs(t, err, types.ErrNotFound)
}
