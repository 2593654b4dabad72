// Package tracing 提供基于OpenTelemetry的分布式追踪框架
//
// # 核心概念
//
// 1. **Trace（追踪）**：一个完整的请求链路
//   - 示例：商家调整库存从HTTP入口到数据库提交的全过程
//
// 2. **Span（跨度）**：一个操作单元
//   - 示例：执行库存扣减UPDATE
//   - 包含：操作名称、开始时间、结束时间、耗时、状态
//
// 3. **SpanContext（上下文）**：跨服务传递的元数据
//   - TraceID：标识整个请求链路
//   - SpanID：标识当前操作
//   - ParentSpanID：标识父操作（构建调用树）
//
// # 追踪示例
//
//	Trace: 调整库存（TraceID=abc123）
//	├─ Span1: HTTP POST /api/vendor/variants/:id/stock（耗时12ms）
//	│  ├─ Span2: AdjustStock用例（耗时10ms）
//	│  │  ├─ Span3: 归属校验查询（耗时2ms）
//	│  │  └─ Span4: 条件扣减UPDATE（耗时6ms）← 瓶颈
//	│  └─ Span5: 发布inventory.adjusted事件（耗时1ms）
//
// # 使用示例
//
//	// 1. 初始化全局Tracer Provider
//	shutdown, err := tracing.InitTracer("vendormall-api", "localhost:4317")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer shutdown(context.Background())
//
//	// 2. 在业务代码中使用
//	func (uc *AdjustStockUseCase) Execute(ctx context.Context, in AdjustStockInput) error {
//	    ctx, span := tracing.StartSpan(ctx, "vendormall-api", "AdjustStock")
//	    defer span.End()
//
//	    span.SetAttributes(attribute.Int("delta", in.Delta))
//
//	    if err := uc.doAdjust(ctx, in); err != nil {
//	        span.RecordError(err)
//	        span.SetStatus(codes.Error, err.Error())
//	        return err
//	    }
//
//	    span.SetStatus(codes.Ok, "库存调整成功")
//	    return nil
//	}
//
// # 最佳实践
//
// 1. Span命名用操作名而非变量值：`AdjustStock`（✅） vs `AdjustStock-123`（❌）
// 2. 属性避免敏感信息：密码、token不进Span
// 3. 总是`defer span.End()`，程序退出时调用`shutdown()`刷新未发送的数据
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// InitTracer 初始化全局Tracer Provider
//
// 参数：
//   - serviceName: 服务名称（在Jaeger UI中显示，如vendormall-api/vendormall-worker）
//   - endpoint: OTLP gRPC端点（如：localhost:4317）
//
// 返回：
//   - shutdown: 关闭函数（程序退出时调用，确保数据刷新）
//   - error: 初始化失败时返回错误
//
// 设计要点：
// 1. 使用OTLP协议（厂商中立，可无缝切换Jaeger/Zipkin/Datadog）
// 2. 采样策略：AlwaysSample适合开发环境；
//    生产环境建议 sdktrace.TraceIDRatioBased(0.01)
// 3. 资源属性：service.name必需，用于在UI中分组
func InitTracer(serviceName, endpoint string) (func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 1. 创建OTLP gRPC Exporter
	// gRPC默认端口4317；HTTP（4318）兼容性更好但这里统一走gRPC
	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(), // 禁用TLS（生产环境应启用）
	)
	if err != nil {
		return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
	}

	// 2. 创建Resource（资源属性）
	// 这些属性会附加到所有Span上，便于在Jaeger UI中筛选和分组
	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("创建资源属性失败: %w", err)
	}

	// 3. 创建Tracer Provider
	// BatchSpanProcessor批量发送Span（性能优于SimpleSpanProcessor），
	// 默认每2秒或512个Span发送一次
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	// 4. 设置全局TracerProvider
	// 业务代码无需传递Provider，直接otel.Tracer()获取
	otel.SetTracerProvider(tp)

	// 5. 设置全局TextMapPropagator（上下文传播器）
	// W3C Trace Context负责跨进程传递traceparent/tracestate头
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	// 6. 返回关闭函数
	// 必须在程序退出前调用，否则可能丢失最后一批Span
	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}

	return shutdown, nil
}

// StartSpan 创建一个新的Span（便捷函数）
//
// 参数：
//   - ctx: 父Context（包含父Span信息）
//   - tracerName: Tracer名称（通常是服务名或模块名）
//   - spanName: Span名称（操作名称，如"AdjustStock"）
//
// 返回：
//   - context.Context: 包含新Span的Context（必须传递给下游调用，否则无法构建调用树）
//   - trace.Span: Span对象（用于添加属性、记录错误、设置状态）
func StartSpan(ctx context.Context, tracerName, spanName string) (context.Context, trace.Span) {
	// 从全局Provider获取Tracer
	tracer := otel.Tracer(tracerName)

	// 如果ctx包含父Span，新Span自动成为子Span，否则成为根Span
	return tracer.Start(ctx, spanName)
}

// ExtractTraceID 从Context提取TraceID（用于关联日志）
//
// 使用场景：在日志中记录TraceID，便于从日志快速定位到Jaeger追踪：
//
//	traceID := tracing.ExtractTraceID(ctx)
//	log.Printf("TraceID=%s, 库存调整成功, VariantID=%d", traceID, variantID)
func ExtractTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().TraceID().String()
}

// ExtractSpanID 从Context提取SpanID
func ExtractSpanID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().SpanID().String()
}
