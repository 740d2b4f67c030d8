package app

import (
	"github.com/carousell/ct-go/pkg/logger"
	"github.com/weni-ai/commerce-concierge/internal/config"
	"github.com/weni-ai/commerce-concierge/internal/repo/tools/order_status"
	"github.com/weni-ai/commerce-concierge/internal/repo/tools/search_product"
	"github.com/weni-ai/commerce-concierge/internal/repo/tools/send_carousel"
	"github.com/weni-ai/commerce-concierge/internal/repo/toolsmanager"
	"github.com/weni-ai/commerce-concierge/internal/server"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"
)

func Invoke(funcs ...any) *fx.App {
	log := logger.MustNamed("app")
	conf := config.MustLoad()
	log.Debugw("config loaded", log.Reflect("config", conf))
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Unwrap().Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Provide(
			server.NewHandler,

			newWeniClient,
			newTimezoneResolver,

			toolsmanager.NewToolsManager,

			search_product.NewTool,
			send_carousel.NewTool,
			order_status.NewTool,
		),
		fx.Supply(conf),
		fx.Invoke(RegisterTools),
		fx.Invoke(funcs...),
	)
}

// RegisterTools adds every tool to the manager at startup.
func RegisterTools(
	manager toolsmanager.ToolsManager,
	searchProduct search_product.Tool,
	sendCarousel send_carousel.Tool,
	orderStatus order_status.Tool,
) error {
	for _, tool := range []toolsmanager.Tool{searchProduct, sendCarousel, orderStatus} {
		if err := manager.AddTool(tool); err != nil {
			return err
		}
	}
	return nil
}
