package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

const (
	// Version 项目版本
	Version = "0.1.0"
	// AppName 应用名称
	AppName = "tokenctl"
)

func main() {
	// CLI 输出走标准输出，日志只保留错误场景
	log.SetFlags(0)

	rootCmd := &cobra.Command{
		Use:           AppName,
		Short:         "Aegis-API 令牌管理工具",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newGenerateCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}
