package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	amqp091 "github.com/rabbitmq/amqp091-go"

	"restaurant-storefront/internal/common/logger"
	"restaurant-storefront/internal/config"
	"restaurant-storefront/internal/connections/rabbitmq"
	"restaurant-storefront/internal/microservices/kitchen/repository"
	"restaurant-storefront/internal/microservices/storefront/domain/dao"
	"restaurant-storefront/internal/microservices/storefront/domain/dto"
	storefrontrepo "restaurant-storefront/internal/microservices/storefront/repository"
	ordersvc "restaurant-storefront/internal/microservices/storefront/service"
)

var (
	ErrRequeue = errors.New("requeue")     // nack(requeue=true)
	ErrDLQ     = errors.New("dead_letter") // nack(requeue=false)
)

// Queue - рабочая очередь кухни, привязана к orders_topic по order.created.
const Queue = "kitchen_orders"

type KitchenServiceInterface interface {
	Run(ctx context.Context, source DeliveryQueue) error
	Process(ctx context.Context, d amqp091.Delivery) error
}

// DeliveryQueue - часть rabbitmq.Client, из которой кухня берёт заказы.
type DeliveryQueue interface {
	ConsumeQueue(queue, key, consumer string, prefetch int) (*rabbitmq.Consumer, error)
}

// OrderUpdater - то, что кухне нужно от сервиса заказов storefront-а.
type OrderUpdater interface {
	GetOrder(ctx context.Context, id string) (dao.Order, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (dao.Order, error)
}

// Stage - статус, в который заказ переводится через After после предыдущего.
type Stage struct {
	Status string
	After  time.Duration
}

type KitchenService struct {
	db     repository.KitchenRepositoryInterface
	orders OrderUpdater
	lg     *logger.Logger

	WorkerName string
	Prefetch   int
	BeatEvery  time.Duration
	Stages     []Stage
}

func NewKitchenService(db repository.KitchenRepositoryInterface, orders OrderUpdater, cfg config.KitchenConfig, lg *logger.Logger) *KitchenService {
	prefetch := cfg.Prefetch
	if prefetch <= 0 {
		prefetch = 1
	}
	beat := cfg.Heartbeat
	if beat <= 0 {
		beat = 30 * time.Second
	}
	return &KitchenService{
		db:         db,
		orders:     orders,
		lg:         lg,
		WorkerName: strings.TrimSpace(cfg.WorkerName),
		Prefetch:   prefetch,
		BeatEvery:  beat,
		Stages:     Stages(cfg),
	}
}

// Stages строит путь заказа: confirmed → preparing → ready и, если включена
// авто-доставка, out_for_delivery → delivered.
func Stages(cfg config.KitchenConfig) []Stage {
	stages := []Stage{
		{Status: dao.StatusConfirmed, After: cfg.ConfirmAfter},
		{Status: dao.StatusPreparing},
		{Status: dao.StatusReady, After: cfg.CookTime},
	}
	if cfg.AutoDeliver {
		stages = append(stages,
			Stage{Status: dao.StatusOutForDelivery},
			Stage{Status: dao.StatusDelivered, After: cfg.DeliveryTime},
		)
	}
	return stages
}

func (ks *KitchenService) Run(ctx context.Context, source DeliveryQueue) error {
	if ks.WorkerName == "" {
		return fmt.Errorf("worker name is empty: pass --worker-name")
	}

	// Регистрация воркера (защита от дублей online)
	if err := ks.db.RegisterOrFail(ctx, ks.WorkerName); err != nil {
		ks.lg.Error("worker_registration_failed", err, map[string]any{"worker": ks.WorkerName})
		return err
	}
	ks.lg.Info("worker_registered", map[string]any{"worker": ks.WorkerName})
	defer func() {
		// ctx уже отменён, поэтому offline пишем со своим таймаутом
		offCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ks.db.SetOffline(offCtx, ks.WorkerName); err != nil {
			ks.lg.Error("worker_offline_failed", err, map[string]any{"worker": ks.WorkerName})
		}
	}()

	consumer, err := source.ConsumeQueue(Queue, ordersvc.OrderCreatedKey, ks.WorkerName, ks.Prefetch)
	if err != nil {
		return fmt.Errorf("consume %s: %w", Queue, err)
	}
	defer consumer.Stop()

	go ks.heartbeat(ctx)
	ks.lg.Info("kitchen_consuming", map[string]any{"queue": Queue, "prefetch": ks.Prefetch, "worker": ks.WorkerName})

	for {
		select {
		case <-ctx.Done():
			ks.lg.Info("graceful_shutdown", map[string]any{"worker": ks.WorkerName})
			return nil
		case d, ok := <-consumer.Deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			ks.settle(d, ks.Process(ctx, d))
		}
	}
}

func (ks *KitchenService) heartbeat(ctx context.Context) {
	t := time.NewTicker(ks.BeatEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := ks.db.Heartbeat(ctx, ks.WorkerName); err != nil {
				ks.lg.Error("heartbeat_failed", err, map[string]any{"worker": ks.WorkerName})
				continue
			}
			ks.lg.Debug("heartbeat_sent", map[string]any{"worker": ks.WorkerName})
		}
	}
}

// settle подтверждает доставку по результату Process.
func (ks *KitchenService) settle(d amqp091.Delivery, err error) {
	fields := map[string]any{"worker": ks.WorkerName, "request_id": d.CorrelationId}
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, ErrDLQ):
		ks.lg.Error("order_dead_lettered", err, fields)
		_ = d.Nack(false, false)
	default:
		ks.lg.Warn("order_requeued", fields)
		_ = d.Nack(false, true)
	}
}

// Process ведёт заказ из order.created по всем стадиям. Стадии, которые
// заказ уже прошёл, пропускаются, поэтому повторная доставка безопасна.
func (ks *KitchenService) Process(ctx context.Context, d amqp091.Delivery) error {
	var msg dao.OrderMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		return fmt.Errorf("%w: %v", ErrDLQ, err)
	}
	if msg.OrderID == "" {
		return fmt.Errorf("%w: message without order_id", ErrDLQ)
	}

	for _, stage := range ks.Stages {
		target, ok := dao.StatusByName(stage.Status)
		if !ok {
			return fmt.Errorf("%w: unknown stage %q", ErrDLQ, stage.Status)
		}

		cur, err := ks.orders.GetOrder(ctx, msg.OrderID)
		if err != nil {
			return classify(err)
		}
		if cur.Status.Terminal() {
			ks.lg.Debug("order_already_closed", map[string]any{"order_id": msg.OrderID, "status": cur.Status.Name})
			return nil
		}
		if cur.Status.SortOrder >= target.SortOrder {
			continue
		}

		if err := wait(ctx, stage.After); err != nil {
			return ErrRequeue
		}

		_, err = ks.orders.UpdateStatus(ctx, msg.OrderID, dto.UpdateStatusRequest{Status: stage.Status, ChangedBy: ks.WorkerName})
		switch {
		case err == nil:
			ks.lg.Debug("order_stage_done", map[string]any{
				"order_id":   msg.OrderID,
				"status":     stage.Status,
				"worker":     ks.WorkerName,
				"request_id": msg.OrderNumber,
			})
		case errors.Is(err, ordersvc.ErrTransition):
			// заказ обогнали (отмена или ручной статус); следующая итерация решит
			continue
		default:
			return classify(err)
		}
	}

	if err := ks.db.MarkProcessed(ctx, ks.WorkerName); err != nil {
		ks.lg.Error("worker_counter_failed", err, map[string]any{"worker": ks.WorkerName})
	}
	ks.lg.Info("order_completed", map[string]any{"order_id": msg.OrderID, "worker": ks.WorkerName, "request_id": msg.OrderNumber})
	return nil
}

func classify(err error) error {
	if errors.Is(err, storefrontrepo.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrDLQ, err)
	}
	return fmt.Errorf("%w: %v", ErrRequeue, err)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
