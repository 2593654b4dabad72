package tracing

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// TestInitTracer 测试Tracer初始化
func TestInitTracer(t *testing.T) {
	t.Run("成功初始化Tracer", func(t *testing.T) {
		// 初始化Tracer
		shutdown, err := InitTracer("test-service", "localhost:4317")
		if err != nil {
			t.Fatalf("初始化Tracer失败: %v", err)
		}
		defer shutdown(context.Background())

		// 验证全局TracerProvider已设置
		tracer := otel.Tracer("test")
		if tracer == nil {
			t.Error("全局TracerProvider未设置")
		}

		t.Log("✅ Tracer初始化成功")
	})
}

// TestStartSpan 测试Span创建
func TestStartSpan(t *testing.T) {
	// 初始化Tracer
	shutdown, err := InitTracer("test-service", "localhost:4317")
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	t.Run("创建根Span", func(t *testing.T) {
		ctx := context.Background()

		// 创建根Span
		_, span := StartSpan(ctx, "test-service", "TestOperation")
		defer span.End()

		// 验证Span有效
		if !span.SpanContext().IsValid() {
			t.Error("Span无效")
		}

		// 验证TraceID存在
		traceID := span.SpanContext().TraceID().String()
		if traceID == "" || traceID == "00000000000000000000000000000000" {
			t.Errorf("TraceID无效: %s", traceID)
		}

		t.Logf("✅ 根Span创建成功, TraceID=%s", traceID)
	})

	t.Run("创建子Span", func(t *testing.T) {
		ctx := context.Background()

		// 创建根Span
		ctx, rootSpan := StartSpan(ctx, "test-service", "RootOperation")
		defer rootSpan.End()

		rootTraceID := rootSpan.SpanContext().TraceID().String()
		rootSpanID := rootSpan.SpanContext().SpanID().String()

		// 创建子Span
		_, childSpan := StartSpan(ctx, "test-service", "ChildOperation")
		defer childSpan.End()

		childTraceID := childSpan.SpanContext().TraceID().String()

		// 验证子Span继承了根Span的TraceID
		if childTraceID != rootTraceID {
			t.Errorf("子Span的TraceID不匹配: root=%s, child=%s", rootTraceID, childTraceID)
		}

		// 验证子Span有不同的SpanID
		childSpanID := childSpan.SpanContext().SpanID().String()
		if childSpanID == rootSpanID {
			t.Error("子Span的SpanID不应与根Span相同")
		}

		t.Logf("✅ 子Span创建成功, TraceID=%s, ParentSpanID=%s, ChildSpanID=%s",
			childTraceID, rootSpanID, childSpanID)
	})
}

// TestExtractTraceID 测试TraceID提取
func TestExtractTraceID(t *testing.T) {
	// 初始化Tracer
	shutdown, err := InitTracer("test-service", "localhost:4317")
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	t.Run("从有效Context提取TraceID", func(t *testing.T) {
		ctx := context.Background()
		ctx, span := StartSpan(ctx, "test-service", "TestExtract")
		defer span.End()

		// 提取TraceID
		traceID := ExtractTraceID(ctx)

		// 验证TraceID非空
		if traceID == "" {
			t.Error("TraceID为空")
		}

		// 验证TraceID长度（32位十六进制）
		if len(traceID) != 32 {
			t.Errorf("TraceID长度错误: expected=32, got=%d", len(traceID))
		}

		t.Logf("✅ TraceID提取成功: %s", traceID)
	})

	t.Run("从无效Context提取TraceID", func(t *testing.T) {
		ctx := context.Background()

		// 提取TraceID（无Span）
		traceID := ExtractTraceID(ctx)

		// 验证返回空字符串
		if traceID != "" {
			t.Errorf("期望空字符串，实际: %s", traceID)
		}

		t.Log("✅ 无效Context返回空TraceID")
	})
}

// TestExtractSpanID 测试SpanID提取
func TestExtractSpanID(t *testing.T) {
	// 初始化Tracer
	shutdown, err := InitTracer("test-service", "localhost:4317")
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	ctx := context.Background()
	ctx, span := StartSpan(ctx, "test-service", "TestExtractSpanID")
	defer span.End()

	// 提取SpanID
	spanID := ExtractSpanID(ctx)

	// 验证SpanID长度（16位十六进制）
	if len(spanID) != 16 {
		t.Errorf("SpanID长度错误: expected=16, got=%d", len(spanID))
	}

	t.Logf("✅ SpanID提取成功: %s", spanID)
}

// TestRealWorldScenario 真实场景：模拟库存调整流程
func TestRealWorldScenario(t *testing.T) {
	// 初始化Tracer
	shutdown, err := InitTracer("test-service", "localhost:4317")
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	defer shutdown(context.Background())

	ctx := context.Background()

	// 模拟库存调整
	err = adjustStock(ctx, 101, -3)
	if err != nil {
		t.Errorf("库存调整失败: %v", err)
	}

	t.Log("✅ 真实场景测试通过，请在Jaeger UI查看追踪: http://localhost:16686")
	t.Log("   Service: test-service")
	t.Log("   Operation: AdjustStock")
}

// 模拟业务函数：调整库存
func adjustStock(ctx context.Context, variantID uint, delta int) error {
	// 创建根Span
	ctx, span := StartSpan(ctx, "test-service", "AdjustStock")
	defer span.End()

	// 添加业务属性
	span.SetAttributes(
		attribute.Int("variant_id", int(variantID)),
		attribute.Int("delta", delta),
	)

	// 步骤1：归属校验
	if err := verifyOwnership(ctx, variantID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	// 步骤2：条件扣减
	if err := applyDelta(ctx, variantID, delta); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "库存调整成功")
	return nil
}

// 模拟业务函数：归属校验
func verifyOwnership(ctx context.Context, variantID uint) error {
	_, span := StartSpan(ctx, "test-service", "VerifyOwnership")
	defer span.End()

	span.SetAttributes(attribute.Int("variant_id", int(variantID)))

	// 模拟数据库查询耗时
	time.Sleep(5 * time.Millisecond)

	span.SetStatus(codes.Ok, "归属校验通过")
	return nil
}

// 模拟业务函数：执行扣减
func applyDelta(ctx context.Context, variantID uint, delta int) error {
	_, span := StartSpan(ctx, "test-service", "ApplyDelta")
	defer span.End()

	span.SetAttributes(
		attribute.Int("variant_id", int(variantID)),
		attribute.Int("delta", delta),
	)

	// 模拟数据库写入耗时
	time.Sleep(10 * time.Millisecond)

	span.SetStatus(codes.Ok, "扣减成功")
	return nil
}
