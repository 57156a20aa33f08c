package memory

import (
	"context"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/audit"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/branch"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/certificate"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/document"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/numbering"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/preemission"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/terminal"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/voidrange"
)

// BranchRepository implementa branch.Repository sobre o Store
type BranchRepository struct{ s *Store }

// NewBranchRepository cria um BranchRepository
func NewBranchRepository(s *Store) branch.Repository { return &BranchRepository{s: s} }

func (r *BranchRepository) Create(ctx context.Context, b *branch.Branch) error {
	r.s.AddBranch(b)
	return nil
}

func (r *BranchRepository) FindByID(ctx context.Context, id string) (*branch.Branch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.branches[id]
	if !ok {
		return nil, branch.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *BranchRepository) List(ctx context.Context, tenantID string, limit, offset int) ([]*branch.Branch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*branch.Branch{}
	for _, b := range r.s.branches {
		if b.TenantID == tenantID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

// TerminalRepository implementa terminal.Repository sobre o Store
type TerminalRepository struct{ s *Store }

// NewTerminalRepository cria um TerminalRepository
func NewTerminalRepository(s *Store) terminal.Repository { return &TerminalRepository{s: s} }

func (r *TerminalRepository) Create(ctx context.Context, t *terminal.Terminal) error {
	r.s.AddTerminal(t)
	return nil
}

func (r *TerminalRepository) FindByID(ctx context.Context, id string) (*terminal.Terminal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.terminals[id]
	if !ok {
		return nil, terminal.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *TerminalRepository) FindFirstByBranch(ctx context.Context, branchID string) (*terminal.Terminal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var oldest *terminal.Terminal
	for _, t := range r.s.terminals {
		if t.BranchID != branchID {
			continue
		}
		if oldest == nil || t.CreatedAt.Before(oldest.CreatedAt) {
			oldest = t
		}
	}
	if oldest == nil {
		return nil, terminal.ErrNotFound
	}
	cp := *oldest
	return &cp, nil
}

func (r *TerminalRepository) ListByBranch(ctx context.Context, branchID string) ([]*terminal.Terminal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*terminal.Terminal{}
	for _, t := range r.s.terminals {
		if t.BranchID == branchID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

// CertificateRepository implementa certificate.Repository sobre o Store
type CertificateRepository struct{ s *Store }

// NewCertificateRepository cria um CertificateRepository
func NewCertificateRepository(s *Store) certificate.Repository { return &CertificateRepository{s: s} }

func (r *CertificateRepository) Create(ctx context.Context, c *certificate.Certificate) error {
	r.s.AddCertificate(c)
	return nil
}

func (r *CertificateRepository) FindByID(ctx context.Context, id string) (*certificate.Certificate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.certificates {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, certificate.ErrNotFound
}

func (r *CertificateRepository) FindActiveByBranch(ctx context.Context, branchID string) (*certificate.Certificate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.certificates[branchID]
	if !ok || !c.IsActive {
		return nil, certificate.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// ReservationRepository implementa numbering.Repository sobre o Store
type ReservationRepository struct{ s *Store }

// NewReservationRepository cria um ReservationRepository
func NewReservationRepository(s *Store) numbering.Repository { return &ReservationRepository{s: s} }

func (r *ReservationRepository) FindByRequestID(ctx context.Context, requestID string) (*numbering.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.reservations[requestID]
	if !ok {
		return nil, numbering.ErrNotFound
	}
	cp := *res
	return &cp, nil
}

// Allocate reproduz em memória o algoritmo da implementação PostgreSQL: a
// seção crítica cobre a releitura da reserva, o insert e o incremento do
// contador, como o lock de linha do terminal cobre na transação real.
func (r *ReservationRepository) Allocate(ctx context.Context, terminalID string, series int, requestID, userID string) (*numbering.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// Equivalente à releitura após violação de constraint única
	if existing, ok := r.s.reservations[requestID]; ok {
		cp := *existing
		return &cp, nil
	}

	term, ok := r.s.terminals[terminalID]
	if !ok {
		return nil, terminal.ErrNotFound
	}

	res, err := numbering.NewReservation(term.TenantID, term.BranchID, term.ID, series, requestID, userID)
	if err != nil {
		return nil, err
	}

	term.LastNumber++
	res.Number = term.LastNumber
	r.s.reservations[requestID] = res

	cp := *res
	return &cp, nil
}

// PreEmissionRepository implementa preemission.Repository sobre o Store
type PreEmissionRepository struct{ s *Store }

// NewPreEmissionRepository cria um PreEmissionRepository
func NewPreEmissionRepository(s *Store) preemission.Repository { return &PreEmissionRepository{s: s} }

func (r *PreEmissionRepository) FindByRequestID(ctx context.Context, requestID string) (*preemission.PreEmission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.preEmissions[requestID]
	if !ok {
		return nil, preemission.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *PreEmissionRepository) CreateIfAbsent(ctx context.Context, p *preemission.PreEmission) (*preemission.PreEmission, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.s.preEmissions[p.RequestID]; ok {
		cp := *existing
		return &cp, false, nil
	}
	cp := *p
	r.s.preEmissions[p.RequestID] = &cp
	out := cp
	return &out, true, nil
}

// DocumentRepository implementa document.Repository sobre o Store
type DocumentRepository struct{ s *Store }

// NewDocumentRepository cria um DocumentRepository
func NewDocumentRepository(s *Store) document.Repository { return &DocumentRepository{s: s} }

func (r *DocumentRepository) FindByRequestID(ctx context.Context, requestID string) (*document.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.findByRequestIDLocked(requestID)
}

func (r *DocumentRepository) findByRequestIDLocked(requestID string) (*document.Document, error) {
	d, ok := r.s.documents[requestID]
	if !ok {
		return nil, document.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *DocumentRepository) FindByID(ctx context.Context, id string) (*document.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	requestID, ok := r.s.docIDIndex[id]
	if !ok {
		return nil, document.ErrNotFound
	}
	return r.findByRequestIDLocked(requestID)
}

func (r *DocumentRepository) FindByAccessKey(ctx context.Context, accessKey string) (*document.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	requestID, ok := r.s.docKeyIndex[accessKey]
	if !ok {
		return nil, document.ErrNotFound
	}
	return r.findByRequestIDLocked(requestID)
}

func (r *DocumentRepository) CreateWithAudit(ctx context.Context, d *document.Document, a *audit.Entry) (*document.Document, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// Equivalente à releitura após violação da constraint única de
	// request ID: quem perde a corrida devolve o documento vencedor
	if existing, ok := r.s.documents[d.RequestID]; ok {
		cp := *existing
		return &cp, false, nil
	}

	cp := *d
	r.s.documents[d.RequestID] = &cp
	r.s.docIDIndex[d.ID] = d.RequestID
	if d.AccessKey != "" {
		r.s.docKeyIndex[d.AccessKey] = d.RequestID
	}
	ac := *a
	r.s.audits = append(r.s.audits, &ac)

	out := cp
	return &out, true, nil
}

func (r *DocumentRepository) UpdateWithAudit(ctx context.Context, d *document.Document, a *audit.Entry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	old, ok := r.s.documents[d.RequestID]
	if !ok {
		return document.ErrNotFound
	}
	if old.AccessKey != "" && old.AccessKey != d.AccessKey {
		delete(r.s.docKeyIndex, old.AccessKey)
	}

	cp := *d
	r.s.documents[d.RequestID] = &cp
	if d.AccessKey != "" {
		r.s.docKeyIndex[d.AccessKey] = d.RequestID
	}
	ac := *a
	r.s.audits = append(r.s.audits, &ac)
	return nil
}

func (r *DocumentRepository) ExistsIssuedInRange(ctx context.Context, branchID string, series, start, end int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.documents {
		if d.BranchID != branchID || d.Series != series {
			continue
		}
		if d.Status != document.StatusAuthorized && d.Status != document.StatusCancelled {
			continue
		}
		if d.Number >= start && d.Number <= end {
			return true, nil
		}
	}
	return false, nil
}

// AuditRepository implementa audit.Repository sobre o Store
type AuditRepository struct{ s *Store }

// NewAuditRepository cria um AuditRepository
func NewAuditRepository(s *Store) audit.Repository { return &AuditRepository{s: s} }

func (r *AuditRepository) Append(ctx context.Context, e *audit.Entry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *e
	r.s.audits = append(r.s.audits, &cp)
	return nil
}

func (r *AuditRepository) ListByRequestID(ctx context.Context, requestID string) ([]*audit.Entry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*audit.Entry{}
	for _, e := range r.s.audits {
		if e.RequestID == requestID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *AuditRepository) ListByDocument(ctx context.Context, documentID string) ([]*audit.Entry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*audit.Entry{}
	for _, e := range r.s.audits {
		if e.DocumentID != nil && *e.DocumentID == documentID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

// VoidRangeRepository implementa voidrange.Repository sobre o Store
type VoidRangeRepository struct{ s *Store }

// NewVoidRangeRepository cria um VoidRangeRepository
func NewVoidRangeRepository(s *Store) voidrange.Repository { return &VoidRangeRepository{s: s} }

func (r *VoidRangeRepository) FindByRequestID(ctx context.Context, requestID string) (*voidrange.VoidRange, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.voidRanges[requestID]
	if !ok {
		return nil, voidrange.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *VoidRangeRepository) FindByRange(ctx context.Context, branchID string, series, start, end int) (*voidrange.VoidRange, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.voidRanges {
		if v.BranchID == branchID && v.Series == series && v.StartNumber == start && v.EndNumber == end {
			cp := *v
			return &cp, nil
		}
	}
	return nil, voidrange.ErrNotFound
}

func (r *VoidRangeRepository) CreateWithAudit(ctx context.Context, v *voidrange.VoidRange, a *audit.Entry) (*voidrange.VoidRange, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.s.voidRanges[v.RequestID]; ok {
		cp := *existing
		return &cp, false, nil
	}
	cp := *v
	r.s.voidRanges[v.RequestID] = &cp
	ac := *a
	r.s.audits = append(r.s.audits, &ac)
	out := cp
	return &out, true, nil
}
