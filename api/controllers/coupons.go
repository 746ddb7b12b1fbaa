package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/rferreira-dev/survshop-backend/api/responses"
	"github.com/rferreira-dev/survshop-backend/api/validators"
	couponsvc "github.com/rferreira-dev/survshop-backend/internal/coupons"
	pkgerrors "github.com/rferreira-dev/survshop-backend/pkg/errors"
	"github.com/rferreira-dev/survshop-backend/pkg/logger"
)

type createCouponRequest struct {
	Code            string          `json:"code" validate:"required"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	RemainingUses   int             `json:"remaining_uses" validate:"min=-1"`
}

type updateCouponRequest struct {
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	RemainingUses   *int             `json:"remaining_uses,omitempty" validate:"omitempty,min=-1"`
}

// CreateCoupon handles admin coupon creation.
func CreateCoupon(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		var payload createCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coupon, err := svc.CreateCoupon(r.Context(), couponsvc.CreateCouponInput{
			Code:            payload.Code,
			DiscountPercent: payload.DiscountPercent,
			RemainingUses:   payload.RemainingUses,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, coupon)
	}
}

// UpdateCoupon handles admin coupon mutation.
func UpdateCoupon(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		code := chi.URLParam(r, "code")

		var payload updateCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coupon, err := svc.UpdateCoupon(r.Context(), code, couponsvc.UpdateCouponInput{
			DiscountPercent: payload.DiscountPercent,
			RemainingUses:   payload.RemainingUses,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, coupon)
	}
}

// DeleteCoupon handles admin coupon removal.
func DeleteCoupon(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		code := chi.URLParam(r, "code")
		if err := svc.DeleteCoupon(r.Context(), code); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// GetCoupon returns a single coupon.
func GetCoupon(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		coupon, err := svc.GetCoupon(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, coupon)
	}
}

// ListCoupons returns all coupons.
func ListCoupons(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		coupons, err := svc.ListCoupons(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, coupons)
	}
}
