package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/moonbit0x/Aegis-API/internal/config"
	"github.com/moonbit0x/Aegis-API/internal/db"
	"github.com/moonbit0x/Aegis-API/internal/events"
	"github.com/moonbit0x/Aegis-API/internal/token"
	"github.com/spf13/cobra"
)

// ErrInvalidTokenName 名称为空或仅含空白字符
var ErrInvalidTokenName = errors.New("token name is not valid")

// generateOptions generate 命令的选项
type generateOptions struct {
	name        string
	description string
	jsonOutput  bool
}

// newGenerateCmd 创建 generate 子命令
func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "生成 REST API 访问令牌",
		RunE: func(cmd *cobra.Command, args []string) error {
			issuer, cleanup, err := buildIssuer()
			if err != nil {
				return err
			}
			defer cleanup()

			return runGenerate(cmd.InOrStdin(), cmd.OutOrStdout(), issuer, opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "令牌名称")
	cmd.Flags().StringVarP(&opts.description, "description", "d", "", "令牌描述（可选）")
	cmd.Flags().BoolVarP(&opts.jsonOutput, "json", "j", false, "以 JSON 格式输出")

	return cmd
}

// buildIssuer 按配置构建签发器及其清理函数
func buildIssuer() (*token.Issuer, func(), error) {
	cfg, err := config.LoadConfig("")
	if err != nil {
		return nil, nil, err
	}

	database, err := db.InitDatabase(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = db.CloseDatabase(database) }

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(database); err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	// CLI 签发与 HTTP 签发共用同一条审计留痕
	service := token.NewServiceWithCost(cfg.Auth.BcryptCost)
	issuer := token.NewIssuer(service, token.NewRepository(database), events.NewService(database))
	return issuer, cleanup, nil
}

// runGenerate 执行令牌签发流程
// 名称缺失时交互式询问，校验失败返回错误（退出码 1）
func runGenerate(in io.Reader, out io.Writer, issuer *token.Issuer, opts *generateOptions) error {
	reader := bufio.NewReader(in)

	name, err := processName(reader, out, opts)
	if err != nil {
		if opts.jsonOutput {
			payload, _ := json.Marshal(map[string]string{"error": err.Error()})
			fmt.Fprintln(out, string(payload))
		} else {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		return err
	}
	if !opts.jsonOutput {
		fmt.Fprintf(out, "Selected name: %s\n", name)
	}

	description := processDescription(reader, out, opts)
	if description != "" && !opts.jsonOutput {
		fmt.Fprintf(out, "Selected description: %s\n", description)
	}

	issued, err := issuer.Issue(name, description)
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		payload, err := json.Marshal(map[string]string{
			"name":        issued.Record.Name,
			"description": issued.Record.Description,
			"identifier":  issued.Record.Identifier,
			"secret":      issued.Secret,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(payload))
		return nil
	}

	fmt.Fprintln(out, "Your token was successfully generated.")
	fmt.Fprintf(out, "Identifier: %s\n", issued.Record.Identifier)
	fmt.Fprintf(out, "Secret: %s\n", issued.Secret)
	fmt.Fprintln(out, "(Please keep this information safe and secure. The secret is shown only once.)")

	return nil
}

// processName 处理名称选项，缺失时交互式询问
func processName(reader *bufio.Reader, out io.Writer, opts *generateOptions) (string, error) {
	name := opts.name
	if name == "" && !opts.jsonOutput {
		fmt.Fprint(out, "Please enter the token name: ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", ErrInvalidTokenName
		}
		name = strings.TrimSpace(line)
	}

	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: name must not be empty", ErrInvalidTokenName)
	}
	return strings.TrimSpace(name), nil
}

// processDescription 处理描述选项，交互模式下缺失时询问
func processDescription(reader *bufio.Reader, out io.Writer, opts *generateOptions) string {
	if opts.description != "" || opts.jsonOutput {
		return opts.description
	}

	fmt.Fprint(out, "Please enter a description for the token (optional): ")
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}
