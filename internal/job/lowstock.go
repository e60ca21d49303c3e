package job

import (
	"fmt"
	"log"
	"os"
	"strings"

	"go-apotek-pos/internal/repository"
	"go-apotek-pos/internal/ws"
	"go-apotek-pos/pkg/mailer"
)

// LowStockSweep checks products below the threshold, broadcasts an alert
// over the hub, and emails the report when a mailer is configured.
// Failures are logged, never fatal.
type LowStockSweep struct {
	productRepo repository.ProductRepository
	wsHub       *ws.Hub
	mail        *mailer.Mailer
	threshold   int
}

func NewLowStockSweep(productRepo repository.ProductRepository, hub *ws.Hub, mail *mailer.Mailer, threshold int) *LowStockSweep {
	return &LowStockSweep{
		productRepo: productRepo,
		wsHub:       hub,
		mail:        mail,
		threshold:   threshold,
	}
}

func (j *LowStockSweep) Run() {
	products, err := j.productRepo.FindLowStock(j.threshold)
	if err != nil {
		log.Println("low stock sweep: query failed:", err)
		return
	}
	if len(products) == 0 {
		return
	}

	names := make([]string, len(products))
	for i, p := range products {
		names[i] = fmt.Sprintf("%s (%s): %d left", p.Name, p.Code, p.Stock)
	}
	log.Printf("low stock sweep: %d products below %d", len(products), j.threshold)

	if j.wsHub != nil {
		j.wsHub.BroadcastJSON(map[string]interface{}{
			"type":      "low_stock_alert",
			"threshold": j.threshold,
			"count":     len(products),
			"products":  names,
		})
	}

	if j.mail != nil {
		to := os.Getenv("LOW_STOCK_REPORT_EMAIL")
		if to == "" {
			return
		}
		subject := fmt.Sprintf("Low stock report: %d products below %d", len(products), j.threshold)
		body := "The following products are running low:\n\n" + strings.Join(names, "\n")
		if err := j.mail.Send(to, subject, body); err != nil {
			log.Println("low stock sweep: email failed:", err)
		}
	}
}
