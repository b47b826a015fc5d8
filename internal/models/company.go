package models

// Company описывает продавца, принимающего подписки.
type Company struct {
	ID            string  `bson:"_id" json:"id"`
	Name          string  `bson:"name" json:"name"`
	WalletAddress string  `bson:"walletAddress" json:"walletAddress"`
	ChainID       int64   `bson:"chainID" json:"chainID"`
	Price         float64 `bson:"price" json:"price"`
}

// CreateCompanyRequest используется для приёма данных компании из JSON-запроса.
type CreateCompanyRequest struct {
	Name          string  `json:"name" validate:"required"`
	WalletAddress string  `json:"walletAddress" validate:"required"`
	ChainID       int64   `json:"chainID" validate:"required"`
	Price         float64 `json:"price" validate:"gte=0"`
}
