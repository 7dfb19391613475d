package companyerrors

import (
	"net/http"

	"kazini-payroll/internal/shared/apperror"
)

var (
	ErrCompanyNotFound = apperror.New(
		apperror.CodeNotFound,
		"Company not found",
		http.StatusNotFound,
	)

	ErrRegistrationNumberTaken = apperror.New(
		apperror.CodeConflict,
		"A company with this registration number already exists",
		http.StatusConflict,
	)

	ErrKraPinTaken = apperror.New(
		apperror.CodeConflict,
		"A company with this KRA PIN already exists",
		http.StatusConflict,
	)

	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid company ID",
		http.StatusBadRequest,
	)

	ErrAlreadyMember = apperror.New(
		apperror.CodeConflict,
		"You already belong to a company",
		http.StatusConflict,
	)
)
