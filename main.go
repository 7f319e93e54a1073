// churnchart charts repository contribution activity as daily candlesticks.
package main

import (
	"github.com/huangsam/churnchart/cmd"
	"github.com/huangsam/churnchart/internal/contract"
	"github.com/huangsam/churnchart/internal/iocache"
)

func main() {
	cmd.SetStoreManager(iocache.Manager)
	defer iocache.CloseStores()

	if err := cmd.Execute(); err != nil {
		iocache.CloseStores()
		contract.LogFatal("Command failed", err)
	}
}
