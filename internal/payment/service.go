// Package payment creates Razorpay orders for pending enrollments and
// activates them once a captured payment's signature checks out.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"github.com/edvora/edvora-api/internal/apperrors"
	"github.com/edvora/edvora-api/internal/course"
	"github.com/edvora/edvora-api/internal/model"
	"github.com/edvora/edvora-api/pkg/mail"
	razorpay "github.com/razorpay/razorpay-go"
	"gorm.io/gorm"
)

// OrderCreator abstracts the Razorpay order call so tests can stub the
// gateway.
type OrderCreator interface {
	CreateOrder(amountInPaise int64, currency, receipt string) (orderID string, err error)
}

type razorpayGateway struct {
	client *razorpay.Client
}

func NewGateway(keyID, keySecret string) OrderCreator {
	return &razorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

func (g *razorpayGateway) CreateOrder(amountInPaise int64, currency, receipt string) (string, error) {
	body := map[string]interface{}{
		"amount":   amountInPaise,
		"currency": currency,
		"receipt":  receipt,
	}
	order, err := g.client.Order.Create(body, nil)
	if err != nil {
		return "", err
	}
	id, ok := order["id"].(string)
	if !ok {
		return "", errors.New("gateway returned no order id")
	}
	return id, nil
}

type Service struct {
	db         *gorm.DB
	courseRepo course.Repository
	gateway    OrderCreator
	mailer     mail.Mailer
	keyID      string
	keySecret  string
}

func NewService(db *gorm.DB, courseRepo course.Repository, gateway OrderCreator, mailer mail.Mailer, keyID, keySecret string) *Service {
	return &Service{
		db:         db,
		courseRepo: courseRepo,
		gateway:    gateway,
		mailer:     mailer,
		keyID:      keyID,
		keySecret:  keySecret,
	}
}

// CreateOrder opens a Razorpay order for the caller's pending enrollment and
// records a Payment row keyed by the gateway's order id.
func (s *Service) CreateOrder(ctx context.Context, userID, enrollmentID int64) (*model.OrderResponse, error) {
	enrollment, err := s.courseRepo.GetEnrollment(ctx, enrollmentID)
	if errors.Is(err, course.ErrNotFound) {
		return nil, apperrors.NotFound("enrollment not found")
	}
	if err != nil {
		return nil, apperrors.SomethingWentWrong
	}
	if enrollment.UserID != userID {
		return nil, apperrors.NotFound("enrollment not found")
	}
	if enrollment.Status == model.EnrollmentActive {
		return nil, apperrors.BadRequest("enrollment is already active")
	}

	c, err := s.courseRepo.GetByID(ctx, enrollment.CourseID)
	if err != nil {
		return nil, apperrors.SomethingWentWrong
	}
	if c.PriceInPaise <= 0 {
		return nil, apperrors.BadRequest("course does not require payment")
	}

	receipt := fmt.Sprintf("enroll_%d", enrollment.ID)
	orderID, err := s.gateway.CreateOrder(c.PriceInPaise, "INR", receipt)
	if err != nil {
		return nil, apperrors.ProviderError("payment gateway rejected the order")
	}

	payment := &model.Payment{
		UserID:        userID,
		EnrollmentID:  enrollment.ID,
		OrderID:       orderID,
		AmountInPaise: c.PriceInPaise,
		Status:        model.PaymentCreated,
	}
	if err := s.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, apperrors.SomethingWentWrong
	}

	return &model.OrderResponse{
		Success:       true,
		OrderID:       orderID,
		AmountInPaise: c.PriceInPaise,
		Currency:      "INR",
		KeyID:         s.keyID,
	}, nil
}

// VerifyPayment validates the checkout callback's HMAC signature, marks the
// payment captured and activates the enrollment. A bad signature marks the
// payment failed.
func (s *Service) VerifyPayment(ctx context.Context, userID int64, req *model.VerifyPaymentRequest) (*model.Payment, error) {
	var payment model.Payment
	err := s.db.WithContext(ctx).Where("order_id = ?", req.OrderID).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("payment not found")
	}
	if err != nil {
		return nil, apperrors.SomethingWentWrong
	}
	if payment.UserID != userID {
		return nil, apperrors.NotFound("payment not found")
	}
	if payment.Status == model.PaymentCaptured {
		return &payment, nil
	}

	if !VerifySignature(req.OrderID, req.PaymentID, req.Signature, s.keySecret) {
		s.db.WithContext(ctx).Model(&payment).Updates(map[string]interface{}{
			"status":     model.PaymentFailed,
			"payment_id": req.PaymentID,
		})
		return nil, apperrors.New("payment signature verification failed", apperrors.CodeInvalidCredential, 400)
	}

	updates := map[string]interface{}{
		"status":     model.PaymentCaptured,
		"payment_id": req.PaymentID,
	}
	if err := s.db.WithContext(ctx).Model(&payment).Updates(updates).Error; err != nil {
		return nil, apperrors.SomethingWentWrong
	}
	payment.Status = model.PaymentCaptured
	payment.PaymentID = req.PaymentID

	if err := s.courseRepo.ActivateEnrollment(ctx, payment.EnrollmentID); err != nil {
		log.Printf("payment captured but enrollment %d activation failed: %v", payment.EnrollmentID, err)
	}

	s.sendReceipt(ctx, &payment)

	return &payment, nil
}

func (s *Service) sendReceipt(ctx context.Context, payment *model.Payment) {
	if s.mailer == nil {
		return
	}
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, payment.UserID).Error; err != nil {
		return
	}
	body := fmt.Sprintf(
		"Hi %s,\n\nWe received your payment of INR %.2f (order %s). Your enrollment is now active.\n\nThe Edvora Team",
		user.FirstName, float64(payment.AmountInPaise)/100, payment.OrderID,
	)
	if err := s.mailer.SendPlainTextEmail(ctx, user.Email, "Payment received", body); err != nil {
		log.Printf("receipt email for order %s failed: %v", payment.OrderID, err)
	}
}

// VerifySignature checks Razorpay's checkout signature:
// HMAC-SHA256(orderID + "|" + paymentID, keySecret) hex-encoded.
func VerifySignature(orderID, paymentID, signature, keySecret string) bool {
	mac := hmac.New(sha256.New, []byte(keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
