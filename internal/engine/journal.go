package engine

import (
	"voidreach-server/internal/domain"
)

// journalTurn дописывает обсчитанный ход в журнал сессии. Журнал ленивый:
// файл создается при первой записи. Ошибки записи не валят обсчет, ход уже
// применен; теряется только возможность реплея.
func (s *GameService) journalTurn(session *domain.Session, orders map[domain.PlayerID]*domain.TurnOrders) {
	if s.journals == nil {
		return
	}

	s.journalMu.Lock()
	defer s.journalMu.Unlock()

	j, ok := s.open[session.ID]
	if !ok {
		var err error
		j, err = s.journals.Open(session.ID, session.Seed)
		if err != nil {
			s.log.WithError(err).WithField("session", session.ID).Warn("Failed to open journal")
			return
		}
		s.open[session.ID] = j
	}

	// Ход уже инкрементирован конвейером, пишем номер завершенного.
	if err := j.AppendTurn(session.Turn-1, orders); err != nil {
		s.log.WithError(err).WithField("session", session.ID).Warn("Failed to append to journal")
	}
}

// closeJournal закрывает журнал завершенной сессии.
func (s *GameService) closeJournal(sessionID domain.SessionID) {
	if s.journals == nil {
		return
	}
	s.journalMu.Lock()
	defer s.journalMu.Unlock()
	if j, ok := s.open[sessionID]; ok {
		_ = j.Close()
		delete(s.open, sessionID)
	}
}
