/*
 * @module cmd/serve
 * @description serve子命令，在本地启动现代化服务的桩实现，用于离线开发与演示
 * @architecture 命令模式 - 直接复用testutil中的桩路由
 * @documentReference ai_docs/modernize_workflow.md
 * @stateFlow 装配桩路由 -> 监听端口 -> 阻塞服务
 * @rules 桩服务契约与远端服务一致，客户端无需区分
 * @dependencies log/slog, net/http, github.com/spf13/cobra, modernize-client/testutil
 * @refs testutil/stub_server.go
 */

package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"modernize-client/testutil"
)

var servePort int

func defaultPort() int {
	if val := getEnvOrDefault("LISTEN_PORT", ""); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			return port
		}
	}
	return 8000
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "本地启动现代化服务桩",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := fmt.Sprintf(":%d", servePort)
		slog.Info("桩服务启动", "addr", addr)

		server := &http.Server{Addr: addr, Handler: testutil.NewStubServer().Router()}
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("桩服务启动失败: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", defaultPort(), "监听端口")
}
