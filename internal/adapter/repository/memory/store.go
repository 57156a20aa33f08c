// Package memory fornece implementações em memória dos repositórios do
// núcleo fiscal. São usadas nos testes de serviço, onde reproduzem as
// mesmas garantias de atomicidade e unicidade que as implementações
// PostgreSQL entregam via transações e constraints.
package memory

import (
	"sort"
	"sync"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/audit"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/branch"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/certificate"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/document"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/numbering"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/preemission"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/terminal"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/voidrange"
)

// Store guarda todo o estado em memória sob um único mutex. O mutex faz o
// papel do lock de linha do terminal: toda alocação de número é uma seção
// crítica, como a transação curta do PostgreSQL.
type Store struct {
	mu sync.Mutex

	branches     map[string]*branch.Branch
	terminals    map[string]*terminal.Terminal
	certificates map[string]*certificate.Certificate // por branch ID
	reservations map[string]*numbering.Reservation   // por request ID
	preEmissions map[string]*preemission.PreEmission // por request ID
	documents    map[string]*document.Document       // por request ID
	docIDIndex   map[string]string                   // document ID -> request ID
	docKeyIndex  map[string]string                   // access key -> request ID
	voidRanges   map[string]*voidrange.VoidRange     // por request ID
	audits       []*audit.Entry
}

// NewStore cria um Store vazio
func NewStore() *Store {
	return &Store{
		branches:     make(map[string]*branch.Branch),
		terminals:    make(map[string]*terminal.Terminal),
		certificates: make(map[string]*certificate.Certificate),
		reservations: make(map[string]*numbering.Reservation),
		preEmissions: make(map[string]*preemission.PreEmission),
		documents:    make(map[string]*document.Document),
		docIDIndex:   make(map[string]string),
		docKeyIndex:  make(map[string]string),
		voidRanges:   make(map[string]*voidrange.VoidRange),
	}
}

// AddBranch cadastra uma filial no store
func (s *Store) AddBranch(b *branch.Branch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *b
	s.branches[b.ID] = &cp
}

// AddTerminal cadastra um terminal no store
func (s *Store) AddTerminal(t *terminal.Terminal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.terminals[t.ID] = &cp
}

// AddCertificate cadastra o certificado ativo de uma filial
func (s *Store) AddCertificate(c *certificate.Certificate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.certificates[c.BranchID] = &cp
}

// TerminalByID retorna uma cópia do terminal, para asserções de teste
func (s *Store) TerminalByID(id string) (*terminal.Terminal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.terminals[id]
	if !ok {
		return nil, false
	}
	cp := *t
	return &cp, true
}

// Audits retorna uma cópia do diário de auditoria em ordem de inclusão
func (s *Store) Audits() []*audit.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*audit.Entry, 0, len(s.audits))
	for _, e := range s.audits {
		cp := *e
		out = append(out, &cp)
	}
	return out
}

// AuditsByEvent retorna os eventos de um tipo em ordem de inclusão
func (s *Store) AuditsByEvent(event audit.EventType) []*audit.Entry {
	all := s.Audits()
	out := make([]*audit.Entry, 0, len(all))
	for _, e := range all {
		if e.EventType == event {
			out = append(out, e)
		}
	}
	return out
}

// Reservations retorna as reservas ordenadas por número, para asserções
func (s *Store) Reservations() []*numbering.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*numbering.Reservation, 0, len(s.reservations))
	for _, r := range s.reservations {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}
