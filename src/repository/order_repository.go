package repository

import (
	"database/sql"
	"log"

	"gitlab.com/open-soft/go-futures-bot/src/model"
)

type OrderStorageInterface interface {
	Create(order model.Order) (*int64, error)
	UpdateStatus(id int64, status string) error
	GetOrders(symbol string) []model.Order
}

// OrderRepository journals every submitted order to MySQL. This is the
// durable trade history; the live loop never reads it on the hot path.
type OrderRepository struct {
	DB *sql.DB
}

func (o *OrderRepository) Create(order model.Order) (*int64, error) {
	res, err := o.DB.Exec(`
		INSERT INTO orders SET
			symbol = ?,
		    side = ?,
		    type = ?,
		    quantity = ?,
		    price = ?,
		    stop_loss = ?,
		    take_profit = ?,
		    status = ?,
		    client_order_id = ?,
		    external_id = ?,
		    created_at = ?
	`,
		order.Symbol,
		order.Side,
		order.Type,
		order.Quantity,
		order.Price,
		order.StopLoss,
		order.TakeProfit,
		order.Status,
		order.ClientOrderId,
		order.ExternalId,
		order.CreatedAt,
	)

	if err != nil {
		log.Println(err)
		return nil, err
	}

	lastId, err := res.LastInsertId()

	if err != nil {
		log.Println(err)
		return nil, err
	}

	return &lastId, nil
}

func (o *OrderRepository) UpdateStatus(id int64, status string) error {
	_, err := o.DB.Exec(`UPDATE orders o SET o.status = ? WHERE o.id = ?`, status, id)

	if err != nil {
		log.Println(err)
		return err
	}

	return nil
}

func (o *OrderRepository) GetOrders(symbol string) []model.Order {
	res, err := o.DB.Query(`
		SELECT
		    o.id as Id,
		    o.symbol as Symbol,
		    o.side as Side,
		    o.type as Type,
		    o.quantity as Quantity,
		    o.price as Price,
		    o.stop_loss as StopLoss,
		    o.take_profit as TakeProfit,
		    o.status as Status,
		    o.client_order_id as ClientOrderId,
		    o.external_id as ExternalId,
		    o.created_at as CreatedAt
		FROM orders o WHERE o.symbol = ? ORDER BY o.id DESC
	`, symbol)

	if err != nil {
		log.Println(err)
		return make([]model.Order, 0)
	}

	defer res.Close()

	list := make([]model.Order, 0)

	for res.Next() {
		var order model.Order
		err := res.Scan(
			&order.Id,
			&order.Symbol,
			&order.Side,
			&order.Type,
			&order.Quantity,
			&order.Price,
			&order.StopLoss,
			&order.TakeProfit,
			&order.Status,
			&order.ClientOrderId,
			&order.ExternalId,
			&order.CreatedAt,
		)

		if err != nil {
			log.Println(err)
			continue
		}

		list = append(list, order)
	}

	return list
}
