package service

import (
	"context"
	"testing"
	"time"

	"github.com/hugohenrick/pdv-fiscal/internal/adapter/repository/memory"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/branch"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/certificate"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/terminal"
	"github.com/hugohenrick/pdv-fiscal/internal/sefaz"
	"github.com/hugohenrick/pdv-fiscal/pkg/logger"
	"github.com/stretchr/testify/require"
)

// staticAccess é um AccessChecker de teste com resposta fixa
type staticAccess struct {
	allowed bool
}

func (a staticAccess) HasBranchAccess(ctx context.Context, userID, branchID string) (bool, error) {
	return a.allowed, nil
}

// fixedClients é um ClientProvider que devolve sempre o mesmo mock,
// ignorando a filial. forceTechnicalFailure ativa a falha técnica no mock,
// como a factory real faz.
type fixedClients struct {
	mock *sefaz.MockClient
}

func (f fixedClients) ForBranch(b *branch.Branch, forceTechnicalFailure bool) sefaz.Client {
	if forceTechnicalFailure {
		forced := sefaz.NewMockClient(f.mock.Environment)
		forced.ForceTechnical = true
		return forced
	}
	return f.mock
}

// fixture monta um cenário completo: filial com certificado válido, um
// terminal na série 1 e todos os serviços ligados aos repositórios em
// memória e ao mock da SEFAZ
type fixture struct {
	store    *memory.Store
	branch   *branch.Branch
	terminal *terminal.Terminal
	mock     *sefaz.MockClient

	reservations    *ReservationService
	preEmissions    *PreEmissionService
	emissions       *EmissionService
	regularizations *RegularizationService
	voidRanges      *VoidRangeService
	queries         *DocumentQueryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()

	br, err := branch.NewBranch("ae2f0f2e-8c8f-4f62-9f6a-0d6a1c9a7b01", "Filial Centro", "001", "12345678000199", "SP", branch.Homologation)
	require.NoError(t, err)
	store.AddBranch(br)

	term, err := terminal.NewTerminal(br.TenantID, br.ID, "PDV-01", "Caixa 1", 1)
	require.NoError(t, err)
	store.AddTerminal(term)

	cert, err := certificate.NewCertificate(br.TenantID, br.ID, "Certificado A1", time.Now().Add(180*24*time.Hour))
	require.NoError(t, err)
	store.AddCertificate(cert)

	branchRepo := memory.NewBranchRepository(store)
	terminalRepo := memory.NewTerminalRepository(store)
	certificateRepo := memory.NewCertificateRepository(store)
	reservationRepo := memory.NewReservationRepository(store)
	preEmissionRepo := memory.NewPreEmissionRepository(store)
	documentRepo := memory.NewDocumentRepository(store)
	auditRepo := memory.NewAuditRepository(store)
	voidRangeRepo := memory.NewVoidRangeRepository(store)

	access := staticAccess{allowed: true}
	mock := sefaz.NewMockClient(branch.Homologation)
	clients := fixedClients{mock: mock}
	log := logger.Nop{}

	return &fixture{
		store:    store,
		branch:   br,
		terminal: term,
		mock:     mock,

		reservations:    NewReservationService(reservationRepo, terminalRepo, certificateRepo, access, log),
		preEmissions:    NewPreEmissionService(preEmissionRepo, reservationRepo, certificateRepo, log),
		emissions:       NewEmissionService(preEmissionRepo, documentRepo, branchRepo, certificateRepo, access, clients, log),
		regularizations: NewRegularizationService(documentRepo, preEmissionRepo, branchRepo, certificateRepo, access, clients, log),
		voidRanges:      NewVoidRangeService(voidRangeRepo, documentRepo, branchRepo, terminalRepo, access, clients, log),
		queries:         NewDocumentQueryService(documentRepo, auditRepo, access),
	}
}

// withDeniedAccess troca o AccessChecker de todos os serviços por um que
// nega qualquer filial
func (f *fixture) withDeniedAccess() *fixture {
	denied := staticAccess{allowed: false}
	f.reservations.access = denied
	f.emissions.access = denied
	f.regularizations.access = denied
	f.voidRanges.access = denied
	f.queries.access = denied
	return f
}

// expireCertificate substitui o certificado da filial por um já vencido
func (f *fixture) expireCertificate(t *testing.T) {
	t.Helper()
	expired := &certificate.Certificate{
		ID:             "c0ffee00-0000-4000-8000-000000000001",
		TenantID:       f.branch.TenantID,
		BranchID:       f.branch.ID,
		Name:           "Certificado vencido",
		ExpirationDate: time.Now().Add(-24 * time.Hour),
		IsActive:       true,
		CreatedAt:      time.Now().Add(-400 * 24 * time.Hour),
		UpdatedAt:      time.Now().Add(-400 * 24 * time.Hour),
	}
	f.store.AddCertificate(expired)
}

// salePayload é um payload de venda mínimo e válido
const salePayload = `{"items":[{"sku":"7891000100103","quantity":"2","unit_price":"4.99","total":"9.98"}],"payments":[{"method":"cash","amount":"9.98"}],"total":"9.98"}`

// emitAuthorized percorre o fluxo completo reserva → pré-emissão → emissão
// e devolve o request ID usado
func (f *fixture) emitAuthorized(t *testing.T, requestID, userID string) string {
	t.Helper()
	ctx := context.Background()

	_, err := f.reservations.Reserve(ctx, f.terminal.ID, 1, requestID, userID)
	require.NoError(t, err)

	_, err = f.preEmissions.Create(ctx, requestID, []byte(salePayload), userID)
	require.NoError(t, err)

	doc, err := f.emissions.Emit(ctx, requestID, userID, false)
	require.NoError(t, err)
	require.NotNil(t, doc)
	return requestID
}
