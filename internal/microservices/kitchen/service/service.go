package service

type Service struct {
	KitchenService KitchenServiceInterface
}
