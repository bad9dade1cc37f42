package main

import (
	"context"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/tsume/bot"
	"github.com/domino14/tsume/config"
)

func TestHandleRequest(t *testing.T) {
	is := is.New(t)
	evt := bot.LambdaEvent{
		Request:   bot.Request{SFEN: "1R7/9/9/9/9/9/9/k1S6/9 b - 1", Depth: 3},
		RequestID: "foo",
	}
	cfg = config.DefaultConfig()
	ret, err := HandleRequest(context.Background(), evt)
	is.NoErr(err)
	is.Equal(ret, "8a8g+ 9h9i 8g9g")
}

func TestHandleRequestNoMate(t *testing.T) {
	is := is.New(t)
	cfg = config.DefaultConfig()
	_, err := HandleRequest(context.Background(), bot.LambdaEvent{
		Request: bot.Request{SFEN: "4k4/9/9/9/9/9/9/9/9 b - 1", Depth: 1},
	})
	is.Equal(err.Error(), "no mate within 1 plies")

	_, err = HandleRequest(context.Background(), bot.LambdaEvent{
		Request:      bot.Request{SFEN: "4k4/9/4P4/9/9/9/9/9/9 b G 1", Depth: 1},
		ReplyChannel: "tsume.reply",
	})
	is.True(err != nil)
}
